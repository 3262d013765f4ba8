package dtlserrors

import (
	"fmt"
)

// we do not allocate on the error returning path,
// so all errors are completely static

// Warnings mean the offending record was dropped and the session
// continues. Fatal errors close the session.

type Error struct {
	fatal bool
	code  int
	text  string
}

func (e *Error) Error() string {
	if e.fatal {
		return fmt.Sprintf("dtls12 (fatal): %d %s", e.code, e.text)
	}
	return fmt.Sprintf("dtls12 (warning): %d %s", e.code, e.text)
}

func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok {
		return e.fatal
	}
	return true // foreign errors are not classified, treat as fatal
}

func NewFatal(code int, text string) error {
	return &Error{
		fatal: true,
		code:  code,
		text:  text,
	}
}

func NewWarning(code int, text string) error {
	return &Error{
		fatal: false,
		code:  code,
		text:  text,
	}
}

var WarnRecordParsing = NewWarning(-401, "record header failed to parse")
var WarnUnknownContentType = NewWarning(-402, "record content type unknown")
var WarnFailedToDeprotectRecord = NewWarning(-403, "failed to deprotect encrypted record")
var WarnHandshakeHeaderParsing = NewWarning(-404, "handshake message header failed to parse")
var WarnHandshakeMessageFragmented = NewWarning(-405, "fragmented handshake message not supported, waiting for retransmission")
var WarnUnexpectedMessage = NewWarning(-406, "handshake message not expected in this state")
var WarnHelloVerifyRequestParsing = NewWarning(-407, "HelloVerifyRequest message failed to parse")
var WarnServerHelloParsing = NewWarning(-408, "ServerHello message failed to parse")
var WarnServerHelloDoneParsing = NewWarning(-409, "ServerHelloDone message failed to parse")
var WarnFinishedParsing = NewWarning(-410, "Finished message failed to parse")
var WarnChangeCipherSpecParsing = NewWarning(-411, "ChangeCipherSpec record failed to parse")
var WarnStaleSequenceNumber = NewWarning(-412, "record sequence number not newer than previous, replay or reorder")
var WarnUnexpectedEpoch = NewWarning(-413, "record epoch not expected in this state")

var ErrRecordOverflowsDatagram = NewFatal(-501, "record length field reads past datagram boundary")
var ErrCipherSuiteMismatch = NewFatal(-502, "server selected cipher suite we did not offer")
var ErrFinishedVerificationFailed = NewFatal(-503, "finished message verification failed")
var ErrHandshakeTimeout = NewFatal(-504, "handshake timed out, ClientHello retransmits exhausted")
var ErrSendSeqOverflow = NewFatal(-505, "send sequence number would overflow 2^48")
var ErrConnectionClosed = NewFatal(-506, "connection is closed")
var ErrConnectionInProgress = NewFatal(-507, "connection already in progress")
