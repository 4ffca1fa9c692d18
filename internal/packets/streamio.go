package packets

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/solechain/core/internal/errs"
)

// StreamIO is the concrete length-prefixed PacketIO over a raw
// byte stream — a libp2p network.Stream, a net.Conn, or any other
// io.ReadWriter — the same "read the header, then read the declared
// remainder" framing the teacher's HandleStream loop implements by hand
// over its own gob-encoded messages.
type StreamIO struct {
	r *bufio.Reader
	w io.Writer
}

// NewStreamIO wraps rw as a PacketIO.
func NewStreamIO(rw io.ReadWriter) *StreamIO {
	return &StreamIO{r: bufio.NewReader(rw), w: rw}
}

// WritePacket writes p's wire encoding in full.
func (s *StreamIO) WritePacket(p Packet) error {
	_, err := s.w.Write(p.Encode())
	return err
}

// ReadPacket reads one packet's header, then its declared remainder.
func (s *StreamIO) ReadPacket() (Packet, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(s.r, header); err != nil {
		return Packet{}, err
	}
	size := binary.LittleEndian.Uint32(header[0:4])
	typ := binary.LittleEndian.Uint32(header[4:8])
	if size < HeaderSize {
		return Packet{}, errs.New(errs.MalformedData, "packets: declared size smaller than header")
	}

	data := make([]byte, size-HeaderSize)
	if _, err := io.ReadFull(s.r, data); err != nil {
		return Packet{}, err
	}
	return Packet{Type: typ, Data: data}, nil
}
