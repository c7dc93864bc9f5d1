package session

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/hargrave81/minesharp-go/internal"
	"github.com/hargrave81/minesharp-go/mcerror"
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/klauspost/compress/zlib"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Session frames, dispatches and sends play packets over a single ordered
// connection. Inbound packets are decoded on one read goroutine and handed
// to subscribed handlers in arrival order.
type Session struct {
	log     *logrus.Logger
	conn    io.ReadWriteCloser
	version int32
	pool    protocol.Pool

	// threshold is the compression threshold, -1 while compression is off.
	threshold atomic.Int32

	writeMu sync.Mutex

	hmu      sync.Mutex
	handlers map[int32][]func(protocol.Packet)
	waiters  map[int32][]chan protocol.Packet

	closed atomic.Bool
}

// New returns a session over conn speaking the given protocol version,
// decoding inbound packets with the clientbound pool.
func New(log *logrus.Logger, conn io.ReadWriteCloser, version int32) *Session {
	s := &Session{
		log:      log,
		conn:     conn,
		version:  version,
		pool:     protocol.NewClientboundPool(),
		handlers: make(map[int32][]func(protocol.Packet)),
		waiters:  make(map[int32][]chan protocol.Packet),
	}
	s.threshold.Store(-1)
	return s
}

// Version returns the protocol version the session speaks.
func (s *Session) Version() int32 {
	return s.version
}

// SetCompression enables zlib frame compression for packets of at least
// threshold bytes, matching a set-compression exchange during login.
func (s *Session) SetCompression(threshold int32) {
	s.threshold.Store(threshold)
}

// Subscribe registers a handler for every inbound packet with the given id.
// Handlers run on the read goroutine, in packet arrival order.
func (s *Session) Subscribe(id int32, h func(protocol.Packet)) {
	s.hmu.Lock()
	s.handlers[id] = append(s.handlers[id], h)
	s.hmu.Unlock()
}

// Expect blocks until the next inbound packet with the given id arrives, or
// the context ends.
func (s *Session) Expect(ctx context.Context, id int32) (protocol.Packet, error) {
	ch := make(chan protocol.Packet, 1)
	s.hmu.Lock()
	s.waiters[id] = append(s.waiters[id], ch)
	s.hmu.Unlock()

	select {
	case pk := <-ch:
		return pk, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send frames and writes a single packet.
func (s *Session) Send(pk protocol.Packet) error {
	if s.closed.Load() {
		return mcerror.New("session closed")
	}

	body := protocol.NewBuffer(nil)
	body.WriteVarint(pk.ID())
	if err := pk.Marshal(body, s.version); err != nil {
		return err
	}
	payload, err := s.compress(body.Bytes())
	if err != nil {
		return err
	}

	frame := protocol.NewBuffer(nil)
	frame.WriteVarint(int32(len(payload)))
	frame.WriteBytes(payload)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err = s.conn.Write(frame.Bytes())
	return err
}

// SendCtx sends a packet unless the context has already ended.
func (s *Session) SendCtx(ctx context.Context, pk protocol.Packet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Send(pk)
}

// Start spawns the read loop. The session closes itself when the connection
// errors out.
func (s *Session) Start() {
	go s.readLoop()
}

// Close closes the underlying connection. Safe to call more than once.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.conn.Close()
}

func (s *Session) readLoop() {
	defer sentry.Recover()
	defer s.Close()

	for {
		body, err := s.readFrame()
		if err != nil {
			if !s.closed.Load() {
				s.log.Errorf("session: read failed: %v", err)
			}
			return
		}
		s.dispatch(body)
	}
}

// readFrame reads one length-prefixed frame and undoes compression,
// returning the raw packet body including its id.
func (s *Session) readFrame() ([]byte, error) {
	length, err := readVarint(s.conn)
	if err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, mcerror.New("session: invalid frame length %d", length)
	}
	frame := make([]byte, length)
	if _, err := io.ReadFull(s.conn, frame); err != nil {
		return nil, err
	}

	if s.threshold.Load() < 0 {
		return frame, nil
	}

	b := protocol.NewBuffer(frame)
	dataLen, err := b.ReadVarint()
	if err != nil {
		return nil, err
	}
	if dataLen == 0 {
		return b.ReadRemaining(), nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(b.ReadRemaining()))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	body := make([]byte, dataLen)
	if _, err := io.ReadFull(zr, body); err != nil {
		return nil, err
	}
	return body, nil
}

// compress applies the frame compression stage to an outbound packet body.
func (s *Session) compress(body []byte) ([]byte, error) {
	threshold := s.threshold.Load()
	if threshold < 0 {
		return body, nil
	}

	out := protocol.NewBuffer(nil)
	if int32(len(body)) < threshold {
		out.WriteVarint(0)
		out.WriteBytes(body)
		return out.Bytes(), nil
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()

	zw := zlib.NewWriter(buf)
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	out.WriteVarint(int32(len(body)))
	out.WriteBytes(buf.Bytes())
	return out.Bytes(), nil
}

// dispatch decodes a packet body and hands it to the subscribed handlers
// and any one-shot waiters.
func (s *Session) dispatch(body []byte) {
	b := protocol.NewBuffer(body)
	id, err := b.ReadVarint()
	if err != nil {
		s.log.Warnf("session: frame without packet id: %v", err)
		return
	}
	mk, known := s.pool[id]
	if !known {
		return
	}
	pk := mk()
	if err := pk.Unmarshal(b, s.version); err != nil {
		s.log.Warnf("session: decoding packet 0x%02x failed: %v", id, err)
		return
	}
	if n := b.Remaining(); n > 0 {
		s.log.Debugf("session: packet 0x%02x left %d trailing bytes", id, n)
	}

	s.hmu.Lock()
	handlers := s.handlers[id]
	waiters := s.waiters[id]
	s.waiters[id] = nil
	s.hmu.Unlock()

	for _, h := range handlers {
		h(pk)
	}
	for _, ch := range waiters {
		ch <- pk
	}
}

// readVarint reads a varint byte by byte straight off the wire.
func readVarint(r io.Reader) (int32, error) {
	var v uint32
	var buf [1]byte
	for i := 0; ; i++ {
		if i == 5 {
			return 0, protocol.ErrMalformedVarint
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v |= uint32(buf[0]&0x7f) << (7 * i)
		if buf[0]&0x80 == 0 {
			break
		}
	}
	return int32(v), nil
}
