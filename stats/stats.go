package stats

import (
	"log"
	"net/netip"
	"sync/atomic"
)

// Stats is the logging/observability seam. The core never prints
// directly, it reports events here. StatsLog is the log-backed default,
// StatsNop silences everything, tests plug in their own recorders.
type Stats interface {
	// transport layer
	SocketReadError(n int, addr netip.AddrPort, err error)
	SocketWriteError(n int, addr netip.AddrPort, err error)
	SocketReadDatagram(datagram []byte, addr netip.AddrPort)
	SocketWriteDatagram(datagram []byte, addr netip.AddrPort)

	// record layer
	BadRecord(kind string, recordOffset int, datagramLen int, err error)
	UnknownContentType(contentType byte, recordOffset int)
	DeprotectFailed(epoch uint16, seq uint64, err error)

	// message layer
	BadMessage(kind string, message string, err error)

	// handshake layer
	Retransmit(attempt int)
	CookieReceived(cookieLen int)
	HandshakeComplete()
	AlertReceived(level byte, description byte)
	Warning(err error)
}

type StatsLog struct {
	printDatagrams atomic.Bool
}

func NewStatsLog() *StatsLog {
	return &StatsLog{}
}

func NewStatsLogVerbose() *StatsLog {
	s := &StatsLog{}
	s.printDatagrams.Store(true)
	return s
}

func (s *StatsLog) SocketReadError(n int, addr netip.AddrPort, err error) {
	log.Printf("dtls12: socket read error n=%d addr=%v: %v", n, addr, err)
}

func (s *StatsLog) SocketWriteError(n int, addr netip.AddrPort, err error) {
	log.Printf("dtls12: socket write error n=%d addr=%v: %v", n, addr, err)
}

func (s *StatsLog) SocketReadDatagram(datagram []byte, addr netip.AddrPort) {
	if !s.printDatagrams.Load() {
		return
	}
	log.Printf("dtls12: socket read %d bytes from addr=%v hex(datagram): %x", len(datagram), addr, datagram)
}

func (s *StatsLog) SocketWriteDatagram(datagram []byte, addr netip.AddrPort) {
	if !s.printDatagrams.Load() {
		return
	}
	log.Printf("dtls12: socket write %d bytes to addr=%v hex(datagram): %x", len(datagram), addr, datagram)
}

func (s *StatsLog) BadRecord(kind string, recordOffset int, datagramLen int, err error) {
	log.Printf("dtls12: bad %s record offset=%d/%d: %v", kind, recordOffset, datagramLen, err)
}

func (s *StatsLog) UnknownContentType(contentType byte, recordOffset int) {
	log.Printf("dtls12: unknown content type %d at offset=%d, record skipped", contentType, recordOffset)
}

func (s *StatsLog) DeprotectFailed(epoch uint16, seq uint64, err error) {
	log.Printf("dtls12: failed to deprotect record epoch=%d seq=%d: %v", epoch, seq, err)
}

func (s *StatsLog) BadMessage(kind string, message string, err error) {
	log.Printf("dtls12: bad %s message %s: %v", kind, message, err)
}

func (s *StatsLog) Retransmit(attempt int) {
	log.Printf("dtls12: no response, retransmitting ClientHello, attempt %d", attempt)
}

func (s *StatsLog) CookieReceived(cookieLen int) {
	log.Printf("dtls12: received HelloVerifyRequest with %d-byte cookie", cookieLen)
}

func (s *StatsLog) HandshakeComplete() {
	log.Printf("dtls12: handshake complete")
}

func (s *StatsLog) AlertReceived(level byte, description byte) {
	log.Printf("dtls12: alert received level=%d description=%d", level, description)
}

func (s *StatsLog) Warning(err error) {
	log.Printf("dtls12: warning: %v", err)
}

type StatsNop struct{}

func NewStatsNop() *StatsNop { return &StatsNop{} }

func (s *StatsNop) SocketReadError(n int, addr netip.AddrPort, err error)     {}
func (s *StatsNop) SocketWriteError(n int, addr netip.AddrPort, err error)    {}
func (s *StatsNop) SocketReadDatagram(datagram []byte, addr netip.AddrPort)   {}
func (s *StatsNop) SocketWriteDatagram(datagram []byte, addr netip.AddrPort)  {}
func (s *StatsNop) BadRecord(kind string, offset int, length int, err error)  {}
func (s *StatsNop) UnknownContentType(contentType byte, recordOffset int)     {}
func (s *StatsNop) DeprotectFailed(epoch uint16, seq uint64, err error)       {}
func (s *StatsNop) BadMessage(kind string, message string, err error)         {}
func (s *StatsNop) Retransmit(attempt int)                                    {}
func (s *StatsNop) CookieReceived(cookieLen int)                              {}
func (s *StatsNop) HandshakeComplete()                                        {}
func (s *StatsNop) AlertReceived(level byte, description byte)                {}
func (s *StatsNop) Warning(err error)                                         {}
