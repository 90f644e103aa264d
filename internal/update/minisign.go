package update

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ErrBadSignature is returned when an artifact does not match its
// minisign signature.
var ErrBadSignature = errors.New("signature verification failed")

const (
	algLegacy    = "Ed" // signature over the raw message
	algPrehashed = "ED" // signature over blake2b-512(message)

	keyIDSize         = 8
	pubKeyBlobSize    = 2 + keyIDSize + ed25519.PublicKeySize
	signatureBlobSize = 2 + keyIDSize + ed25519.SignatureSize

	trustedCommentPrefix = "trusted comment: "
)

// MinisignVerifier checks minisign signatures against one public key.
type MinisignVerifier struct {
	keyID [keyIDSize]byte
	key   ed25519.PublicKey
}

// NewMinisignVerifier parses a public key in either form release tooling
// emits: the base64 of a whole minisign .pub file, or the bare key line.
func NewMinisignVerifier(pubkey string) (*MinisignVerifier, error) {
	line := lastLine(unwrapBase64Text(pubkey))
	blob, err := base64.StdEncoding.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("minisign: decode public key: %w", err)
	}
	if len(blob) != pubKeyBlobSize {
		return nil, fmt.Errorf("minisign: public key is %d bytes, want %d", len(blob), pubKeyBlobSize)
	}
	if string(blob[:2]) != algLegacy {
		return nil, fmt.Errorf("minisign: unsupported key algorithm %q", blob[:2])
	}

	v := &MinisignVerifier{key: ed25519.PublicKey(bytes.Clone(blob[2+keyIDSize:]))}
	copy(v.keyID[:], blob[2:2+keyIDSize])
	return v, nil
}

// KeyID returns the key id as minisign prints it (uppercase hex, little
// endian).
func (v *MinisignVerifier) KeyID() string {
	var b strings.Builder
	for i := keyIDSize - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%02X", v.keyID[i])
	}
	return b.String()
}

// Verify checks data against signature, which is the base64 of a minisign
// .sig file (or the file text itself).
func (v *MinisignVerifier) Verify(data []byte, signature string) error {
	lines := splitLines(unwrapBase64Text(signature))
	if len(lines) < 4 {
		return fmt.Errorf("%w: malformed signature file", ErrBadSignature)
	}

	sigBlob, err := base64.StdEncoding.DecodeString(lines[1])
	if err != nil || len(sigBlob) != signatureBlobSize {
		return fmt.Errorf("%w: malformed signature line", ErrBadSignature)
	}
	alg := string(sigBlob[:2])
	if !bytes.Equal(sigBlob[2:2+keyIDSize], v.keyID[:]) {
		return fmt.Errorf("%w: signed by a different key", ErrBadSignature)
	}
	sig := sigBlob[2+keyIDSize:]

	var msg []byte
	switch alg {
	case algLegacy:
		msg = data
	case algPrehashed:
		sum := blake2b.Sum512(data)
		msg = sum[:]
	default:
		return fmt.Errorf("%w: unsupported algorithm %q", ErrBadSignature, alg)
	}
	if !ed25519.Verify(v.key, msg, sig) {
		return fmt.Errorf("%w: artifact does not match", ErrBadSignature)
	}

	comment, ok := strings.CutPrefix(lines[2], trustedCommentPrefix)
	if !ok {
		return fmt.Errorf("%w: missing trusted comment", ErrBadSignature)
	}
	globalSig, err := base64.StdEncoding.DecodeString(lines[3])
	if err != nil || len(globalSig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: malformed global signature", ErrBadSignature)
	}
	if !ed25519.Verify(v.key, append(bytes.Clone(sig), comment...), globalSig) {
		return fmt.Errorf("%w: trusted comment does not match", ErrBadSignature)
	}
	return nil
}

// unwrapBase64Text returns the decoded text when s is base64 of a
// minisign file, and s unchanged otherwise.
func unwrapBase64Text(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "untrusted comment:") {
		return s
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil || !strings.HasPrefix(string(decoded), "untrusted comment:") {
		return s
	}
	return string(decoded)
}

func splitLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func lastLine(s string) string {
	lines := splitLines(s)
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
