package packets

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/solechain/core/internal/errs"
)

// SecurityMode selects whether a PacketIO wraps its payloads in a signed
// envelope (§4.10).
type SecurityMode int

const (
	// SecurityNone bypasses signing: Wrap returns the inner IO unchanged.
	SecurityNone SecurityMode = iota
	// SecuritySigned wraps every outgoing payload in a Secure_Signed
	// envelope and verifies every incoming one.
	SecuritySigned
)

// IO is the minimal packet transport a SecureIO decorates: write a
// complete packet, read the next one.
type IO interface {
	WritePacket(p Packet) error
	ReadPacket() (Packet, error)
}

// SecureIO wraps an inner IO, signing every outgoing payload with a local
// key and verifying every incoming one against a configured remote key
// (§4.10). maxSignedDataSize bounds the child packet's data section
// (header + data), not the envelope as a whole.
type SecureIO struct {
	inner             IO
	localKey          ed25519.PrivateKey
	remoteKey         ed25519.PublicKey
	maxSignedDataSize int
}

// Wrap returns a PacketIO implementing the requested security mode.
// SecurityNone returns inner unchanged; SecuritySigned returns a SecureIO.
func Wrap(mode SecurityMode, inner IO, localKey ed25519.PrivateKey, remoteKey ed25519.PublicKey, maxSignedDataSize int) IO {
	if mode == SecurityNone {
		return inner
	}
	return &SecureIO{inner: inner, localKey: localKey, remoteKey: remoteKey, maxSignedDataSize: maxSignedDataSize}
}

// WritePacket signs child (header || data) and writes a Secure_Signed
// envelope packet. Fails without touching the wire if the child's data
// section exceeds maxSignedDataSize.
func (s *SecureIO) WritePacket(child Packet) error {
	if HeaderSize+len(child.Data) > s.maxSignedDataSize {
		return errs.New(errs.MalformedData, "packets: child packet exceeds max signed data size")
	}

	childHeader := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(childHeader[0:4], child.Size())
	binary.LittleEndian.PutUint32(childHeader[4:8], child.Type)

	signed := append(append([]byte{}, childHeader...), child.Data...)
	sig := ed25519.Sign(s.localKey, signed)

	envelopeData := make([]byte, 0, chaintypesSignatureSize+HeaderSize+len(child.Data))
	envelopeData = append(envelopeData, sig...)
	envelopeData = append(envelopeData, childHeader...)
	envelopeData = append(envelopeData, child.Data...)

	return s.inner.WritePacket(Packet{Type: SecureSigned, Data: envelopeData})
}

// chaintypesSignatureSize mirrors chaintypes.SignatureSize without
// importing the package, to keep packets free of a dependency on the
// entity data model.
const chaintypesSignatureSize = 64

// ReadPacket reads one Secure_Signed envelope, verifies its signature,
// and returns the decoded child packet.
func (s *SecureIO) ReadPacket() (Packet, error) {
	envelope, err := s.inner.ReadPacket()
	if err != nil {
		return Packet{}, err
	}
	if envelope.Type != SecureSigned {
		return Packet{}, errs.New(errs.MalformedData, "packets: expected Secure_Signed envelope")
	}
	if len(envelope.Data) < chaintypesSignatureSize+HeaderSize {
		return Packet{}, errs.New(errs.MalformedData, "packets: envelope shorter than signature+header")
	}

	sig := envelope.Data[:chaintypesSignatureSize]
	childHeader := envelope.Data[chaintypesSignatureSize : chaintypesSignatureSize+HeaderSize]
	childData := envelope.Data[chaintypesSignatureSize+HeaderSize:]

	childSize := binary.LittleEndian.Uint32(childHeader[0:4])
	childType := binary.LittleEndian.Uint32(childHeader[4:8])
	if uint64(childSize) != uint64(HeaderSize+len(childData)) {
		return Packet{}, errs.New(errs.MalformedData, "packets: child size field mismatch")
	}

	signed := append(append([]byte{}, childHeader...), childData...)
	if !ed25519.Verify(s.remoteKey, signed, sig) {
		return Packet{}, errs.New(errs.SecurityError, "packets: envelope signature verification failed")
	}

	return Packet{Type: childType, Data: childData}, nil
}
