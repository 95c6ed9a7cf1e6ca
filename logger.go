package livesplit

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/P1n3appl3/livesplit-wrapper/host"
)

// Severity prefixes the runtime's message view shows for each level. Info
// entries are delivered verbatim.
const (
	warnGlyph  = "⚠️ "
	errorGlyph = "⛔ "
)

// NewLogger returns a zap logger whose entries are delivered through the
// runtime's print primitive, one boundary call per entry.
//
// The sandbox has no console, so this is the only way a splitter's output
// reaches an operator. Delivery is best-effort: nothing is buffered,
// batched or retried, and a dropped message is not observable. Debug
// entries are discarded before formatting.
func NewLogger(b host.Bridge) *zap.Logger {
	return zap.New(newBridgeCore(b, zapcore.InfoLevel))
}

// bridgeCore is a zapcore.Core that forwards formatted entries to
// host.Bridge.PrintMessage. Fields are rendered by a bare console encoder
// so a plain log.Info("x") crosses the boundary as exactly "x".
type bridgeCore struct {
	zapcore.LevelEnabler
	bridge host.Bridge
	enc    zapcore.Encoder
}

func newBridgeCore(b host.Bridge, enab zapcore.LevelEnabler) *bridgeCore {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:     "msg",
		LineEnding:     "\n",
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	return &bridgeCore{LevelEnabler: enab, bridge: b, enc: enc}
}

func (c *bridgeCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &bridgeCore{LevelEnabler: c.LevelEnabler, bridge: c.bridge, enc: c.enc.Clone()}
	for i := range fields {
		fields[i].AddTo(clone.enc)
	}
	return clone
}

func (c *bridgeCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *bridgeCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	line := strings.TrimRight(buf.String(), "\n")
	buf.Free()
	switch {
	case ent.Level >= zapcore.ErrorLevel:
		line = errorGlyph + line
	case ent.Level == zapcore.WarnLevel:
		line = warnGlyph + line
	}
	c.bridge.PrintMessage(line)
	return nil
}

func (c *bridgeCore) Sync() error { return nil }
