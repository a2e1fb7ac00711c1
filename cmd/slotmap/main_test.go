//go:build !tinygo

package main

import (
	"bytes"
	"strings"
	"testing"

	"m8r/cluster/decode"
	"m8r/internal/config"

	"gopkg.in/yaml.v3"
)

func testConfig() *config.Config {
	return &config.Config{SlotSize: 2, Gauges: []config.Gauge{
		{FrameID: 0x101, SlotID: 1, DataType: config.DataType(decode.U8), Title: "IAT"},
		{FrameID: 0x100, SlotID: 2, DataType: config.DataType(decode.I16), Title: "Oil temp"},
		{FrameID: 0x100, SlotID: 5, DataType: config.DataType(decode.U16), Title: "Late"},
	}}
}

func TestRunText(t *testing.T) {
	var out bytes.Buffer
	n, err := run(&out, testConfig(), "text")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Fatalf("findings=%d want 1", n)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("output:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "0x100") || !strings.Contains(lines[1], "2..3") || !strings.Contains(lines[1], "I16") {
		t.Fatalf("first row %q", lines[1])
	}
	if !strings.HasPrefix(lines[3], "0x101") {
		t.Fatalf("rows not sorted by id: %q", lines[3])
	}
	if !strings.HasPrefix(lines[4], "warning:") {
		t.Fatalf("missing lint warning: %q", lines[4])
	}
}

func TestRunYAML(t *testing.T) {
	var out bytes.Buffer
	if _, err := run(&out, testConfig(), "yaml"); err != nil {
		t.Fatalf("run: %v", err)
	}
	var rep struct {
		Frames []struct {
			ID    string `yaml:"id"`
			Slots []struct {
				Slot  int    `yaml:"slot"`
				Bytes []int  `yaml:"bytes"`
				Type  string `yaml:"type"`
			} `yaml:"slots"`
		} `yaml:"frames"`
		Findings []string `yaml:"findings"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out.String())
	}
	if len(rep.Frames) != 2 || rep.Frames[0].ID != "0x100" || len(rep.Frames[0].Slots) != 2 {
		t.Fatalf("report %+v", rep)
	}
	if s := rep.Frames[0].Slots[1]; s.Type != "U16" || s.Bytes[0] != 8 || s.Bytes[1] != 9 {
		t.Fatalf("slot %+v", s)
	}
	if len(rep.Findings) != 1 {
		t.Fatalf("findings %v", rep.Findings)
	}
}

func TestRunUnknownFormat(t *testing.T) {
	if _, err := run(&bytes.Buffer{}, testConfig(), "csv"); err == nil {
		t.Fatal("expected error")
	}
}
