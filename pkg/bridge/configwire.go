package bridge

import (
	"sort"

	"github.com/nidefawl/yabridge/pkg/wire"
)

// ConfigMessage carries the configuration record to the foreign host at
// the end of the startup handshake. Flags are sent sorted so the encoding
// is deterministic.
type ConfigMessage struct {
	Config Config
}

func (m *ConfigMessage) MarshalWire(e *wire.Encoder) {
	e.Bool(m.Config.HideDAW)
	e.Bool(m.Config.Prefer32Bit)
	keys := make([]string, 0, len(m.Config.CompatFlags))
	for k := range m.Config.CompatFlags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.Uint32(uint32(len(keys)))
	for _, k := range keys {
		e.String(k)
		e.String(m.Config.CompatFlags[k])
	}
}

func (m *ConfigMessage) UnmarshalWire(d *wire.Decoder) (err error) {
	if m.Config.HideDAW, err = d.Bool(); err != nil {
		return err
	}
	if m.Config.Prefer32Bit, err = d.Bool(); err != nil {
		return err
	}
	n, err := d.Uint32()
	if err != nil {
		return err
	}
	if n > 0 {
		m.Config.CompatFlags = make(map[string]string, n)
	}
	for i := uint32(0); i < n; i++ {
		k, err := d.String()
		if err != nil {
			return err
		}
		v, err := d.String()
		if err != nil {
			return err
		}
		m.Config.CompatFlags[k] = v
	}
	return nil
}
