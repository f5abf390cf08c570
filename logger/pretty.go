package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiFaint = "\033[2m"

	timeColor    = "\033[38;2;148;163;184m"
	textColor    = "\033[38;2;226;232;240m"
	metaKeyColor = "\033[38;2;94;234;212m"
)

//nolint:gochecknoglobals // palette is a static lookup shared across encoder instances.
var levelPalette = map[zapcore.Level]string{
	zapcore.DebugLevel: "\033[38;2;129;140;248m",
	zapcore.InfoLevel:  "\033[38;2;16;185;129m",
	zapcore.WarnLevel:  "\033[38;2;245;158;11m",
	zapcore.ErrorLevel: "\033[38;2;248;113;113m",
	zapcore.FatalLevel: "\033[38;2;217;70;239m",
}

// prettyLogger wraps zap's JSON encoder to produce colorized, indented output suited for terminals.
type prettyLogger struct {
	zapcore.Encoder
}

// Clone ensures derived loggers keep the pretty encoder wrapper.
func (e *prettyLogger) Clone() zapcore.Encoder {
	return &prettyLogger{Encoder: e.Encoder.Clone()}
}

// newPrettyLogger creates a pretty logger writing to stdout.
func newPrettyLogger(cfg *zap.Config) *zap.Logger {
	enc := &prettyLogger{Encoder: zapcore.NewJSONEncoder(cfg.EncoderConfig)}
	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

// EncodeEntry formats a log entry as a colorized header line followed by
// indented metadata key/value lines in their original field order.
func (e *prettyLogger) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	jsonBuf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}

	raw := append([]byte(nil), jsonBuf.Bytes()...)
	jsonBuf.Reset()

	payload, decodeErr := unmarshalOrdered(bytes.TrimSpace(raw))
	if decodeErr != nil {
		// Fall back to the raw JSON line rather than dropping the entry.
		_, _ = jsonBuf.Write(raw)
		return jsonBuf, nil
	}

	if _, err = jsonBuf.WriteString(buildHeader(entry)); err != nil {
		return nil, err
	}
	if err = writeMetadata(jsonBuf, payload); err != nil {
		return nil, err
	}

	return jsonBuf, nil
}

func buildHeader(entry zapcore.Entry) string {
	timestamp := entry.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	color := levelPalette[entry.Level]
	if color == "" {
		color = levelPalette[zapcore.InfoLevel]
	}

	var b strings.Builder
	b.WriteString(ansiFaint + timeColor + "[" + timestamp.Format(time.DateTime) + "]" + ansiReset)
	b.WriteByte(' ')
	b.WriteString(ansiBold + color + strings.ToUpper(entry.Level.String()) + ansiReset)
	if entry.Message != "" {
		b.WriteByte(' ')
		b.WriteString(textColor + entry.Message + ansiReset)
	}
	b.WriteByte('\n')
	return b.String()
}

func writeMetadata(buf *buffer.Buffer, payload *orderedmap.OrderedMap[string, any]) error {
	for pair := payload.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case timeKey, levelKey, messageKey:
			continue
		}

		val, err := json.MarshalIndent(pair.Value, "  ", "  ")
		if err != nil {
			val = []byte("<unencodable>")
		}
		line := "  " + metaKeyColor + pair.Key + ansiReset + ": " +
			ansiFaint + textColor + string(val) + ansiReset + "\n"
		if _, err = buf.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

// unmarshalOrdered unmarshals a JSON object preserving the original key order.
func unmarshalOrdered(data []byte) (*orderedmap.OrderedMap[string, any], error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, err
	}

	return decodeObject(decoder)
}

func decodeObject(decoder *json.Decoder) (*orderedmap.OrderedMap[string, any], error) {
	om := orderedmap.New[string, any]()

	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyToken.(string)

		value, err := decodeValue(decoder)
		if err != nil {
			return nil, err
		}

		om.Set(key, value)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return om, nil
}

func decodeValue(decoder *json.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	if delim, ok := token.(json.Delim); ok {
		switch delim {
		case '{':
			return decodeObject(decoder)
		case '[':
			return decodeArray(decoder)
		}
	}

	return token, nil
}

func decodeArray(decoder *json.Decoder) ([]any, error) {
	var arr []any
	for decoder.More() {
		value, err := decodeValue(decoder)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return arr, nil
}
