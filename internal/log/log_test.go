package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"

	applog "ccp/internal/log"
)

func TestJobWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	oldW, oldFlags := stdlog.Writer(), stdlog.Flags()
	stdlog.SetOutput(&buf)
	stdlog.SetFlags(0)
	defer func() {
		stdlog.SetOutput(oldW)
		stdlog.SetFlags(oldFlags)
	}()

	applog.Job("refresh.inventory", errors.New("timeout"), map[string]any{"count": 0})

	var e struct {
		Level  string `json:"level"`
		Action string `json:"action"`
		Err    string `json:"err"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &e); err != nil {
		t.Fatalf("not a json line: %q", buf.String())
	}
	if e.Level != "error" || e.Action != "refresh.inventory" || e.Err != "timeout" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}
