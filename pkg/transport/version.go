package transport

import (
	"strings"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/wire"
)

// Version is the bridge release both sides announce after all channels are
// paired.
const Version = "5.1.1"

type versionMessage struct{ value string }

func (v *versionMessage) MarshalWire(e *wire.Encoder) { e.String(v.value) }
func (v *versionMessage) UnmarshalWire(d *wire.Decoder) error {
	var err error
	v.value, err = d.String()
	return err
}

// ExchangeVersions sends our version over the control channel and reads the
// peer's. A mismatch is logged but never fatal: the protocol carries its
// own framing, so minor skew between a stale stub and a fresh host still
// works more often than not.
func ExchangeVersions(ch *Channel, logger *zap.Logger) (string, error) {
	if err := ch.Send(&versionMessage{value: Version}); err != nil {
		return "", err
	}
	var peer versionMessage
	if err := ch.Receive(&peer); err != nil {
		return "", err
	}
	WarnOnVersionMismatch(peer.value, logger)
	return peer.value, nil
}

// EchoVersion is the foreign-host half of the exchange.
func EchoVersion(ch *Channel) (string, error) {
	var peer versionMessage
	if err := ch.Receive(&peer); err != nil {
		return "", err
	}
	if err := ch.Send(&versionMessage{value: Version}); err != nil {
		return "", err
	}
	return peer.value, nil
}

// WarnOnVersionMismatch compares the peer's announced version against ours.
func WarnOnVersionMismatch(peer string, logger *zap.Logger) {
	if logger == nil || peer == Version {
		return
	}
	ours, err1 := semver.NewVersion(strings.TrimPrefix(Version, "v"))
	theirs, err2 := semver.NewVersion(strings.TrimPrefix(peer, "v"))
	if err1 != nil || err2 != nil || !ours.Equal(*theirs) {
		logger.Warn("host and stub library versions do not match, "+
			"this may cause instability",
			zap.String("ours", Version), zap.String("theirs", peer))
	}
}
