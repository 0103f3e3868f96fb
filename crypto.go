package bury

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/pkg/errors"
)

const (
	ivSize       = 16
	checksumSize = 16
	aesKeySize   = 16 // AES-128; see spec §9 Open Question 1
	filenameSize = 32
)

// EncryptResult bundles the payload bytes (IV ‖ ciphertext ‖ checksum,
// without the 9-byte header) produced by Encrypt, along with the
// MSG_PARAMS byte that
// records which optional transforms were applied.
type EncryptResult struct {
	Framed    []byte
	MsgParams byte
}

// padFilename pads/truncates name to exactly 32 bytes per spec §4.6
// step 1: pad by prepending spaces; on truncation, keep the last 32
// bytes so the extension survives (spec §9 Open Question 5).
func padFilename(name string) [filenameSize]byte {
	var out [filenameSize]byte
	b := []byte(name)
	if len(b) >= filenameSize {
		copy(out[:], b[len(b)-filenameSize:])
		return out
	}
	pad := filenameSize - len(b)
	for i := 0; i < pad; i++ {
		out[i] = ' '
	}
	copy(out[pad:], b)
	return out
}

func trimFilename(b [filenameSize]byte) string {
	return string(bytes.Trim(b[:], " "))
}

func bzip2Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: 9})
	if err != nil {
		return nil, errors.Wrap(err, "compress: creating bzip2 writer")
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "compress: writing to bzip2 stream")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "compress: closing bzip2 stream")
	}
	return buf.Bytes(), nil
}

func bzip2Decompress(data []byte) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, errors.Wrap(ErrDecompressFailure, err.Error())
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(ErrDecompressFailure, err.Error())
	}
	return out, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(data, padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.Wrap(ErrDecryptFailure, "ciphertext is not a multiple of the block size")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, errors.Wrap(ErrDecryptFailure, "invalid PKCS#7 padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.Wrap(ErrDecryptFailure, "invalid PKCS#7 padding")
		}
	}
	return data[:len(data)-padLen], nil
}

// Encrypt runs the full encode-side CryptoPipeline: optional
// filename-prepend, optional BZip2 compression, AES-128-CBC encryption
// under a fresh random IV, MD5(ciphertext) checksum, and assembly into
// IV ‖ ciphertext ‖ checksum (spec §4.6). It returns the payload body
// (excluding the 9-byte header) and the MSG_PARAMS byte the caller
// should pack into the header.
func Encrypt(plaintext []byte, filename string, opts Options, pdp PDP) (EncryptResult, error) {
	var msgParams byte

	data := plaintext
	if opts.StoreFilename {
		padded := padFilename(filename)
		data = append(append([]byte{}, padded[:]...), data...)
		msgParams |= msgParamFilename
	}

	if opts.Compress {
		compressed, err := bzip2Compress(data)
		if err != nil {
			return EncryptResult{}, err
		}
		data = compressed
		msgParams |= msgParamCompressed
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return EncryptResult{}, errors.Wrap(err, "encrypt: generating IV")
	}

	block, err := aes.NewCipher(pdp.CipherKey[:aesKeySize])
	if err != nil {
		return EncryptResult{}, errors.Wrap(err, "encrypt: constructing AES cipher")
	}

	padded := pkcs7Pad(data, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	msgParams |= msgParamEncrypted

	checksum := md5.Sum(ciphertext)

	payload := make([]byte, 0, ivSize+len(ciphertext)+checksumSize)
	payload = append(payload, iv...)
	payload = append(payload, ciphertext...)
	payload = append(payload, checksum[:]...)

	debugLog("encrypted payload", "plaintext_bytes", len(plaintext), "payload_bytes", len(payload), "compressed", opts.Compress, "filename", opts.StoreFilename)

	return EncryptResult{Framed: payload, MsgParams: msgParams}, nil
}

// DecryptResult bundles the decoded message bytes and, if the
// filename-prepended flag was set, the recovered filename.
type DecryptResult struct {
	Message  []byte
	Filename string
	HasName  bool
}

// Decrypt inverts Encrypt: split IV ‖ ciphertext ‖ checksum, verify
// MD5(ciphertext), decrypt, optionally decompress, optionally split the
// 32-byte filename field (spec §4.6 decrypt path).
func Decrypt(payload []byte, msgParams byte, pdp PDP) (DecryptResult, error) {
	if len(payload) < ivSize+checksumSize {
		return DecryptResult{}, errors.Wrap(ErrBadChecksum, "payload too short to contain IV and checksum")
	}

	iv := payload[:ivSize]
	ciphertext := payload[ivSize : len(payload)-checksumSize]
	wantChecksum := payload[len(payload)-checksumSize:]

	gotChecksum := md5.Sum(ciphertext)
	if !bytes.Equal(gotChecksum[:], wantChecksum) {
		return DecryptResult{}, errors.WithStack(ErrBadChecksum)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return DecryptResult{}, errors.Wrap(ErrDecryptFailure, "ciphertext is not a multiple of the AES block size")
	}

	block, err := aes.NewCipher(pdp.CipherKey[:aesKeySize])
	if err != nil {
		return DecryptResult{}, errors.Wrap(err, "decrypt: constructing AES cipher")
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	data, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return DecryptResult{}, err
	}

	header := Header{MsgParams: msgParams}
	if header.Compressed() {
		data, err = bzip2Decompress(data)
		if err != nil {
			return DecryptResult{}, err
		}
	}

	result := DecryptResult{Message: data}
	if header.FilenamePrepended() {
		if len(data) < filenameSize {
			return DecryptResult{}, errors.Wrap(ErrDecryptFailure, "message too short to contain filename field")
		}
		var nameBuf [filenameSize]byte
		copy(nameBuf[:], data[:filenameSize])
		result.Filename = trimFilename(nameBuf)
		result.HasName = true
		result.Message = data[filenameSize:]
	}

	debugLog("decrypted payload", "payload_bytes", len(payload), "message_bytes", len(result.Message), "has_filename", result.HasName)

	return result, nil
}
