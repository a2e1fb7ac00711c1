//go:build !tinygo

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"m8r/internal/config"

	"gopkg.in/yaml.v3"
)

func main() {
	var configPath string
	var format string
	flag.StringVar(&configPath, "config", "./config.yaml", "Path to the cluster configuration.")
	flag.StringVar(&format, "format", "text", "Output format: text or yaml.")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	findings, err := run(os.Stdout, cfg, format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	if findings > 0 {
		os.Exit(3)
	}
}

type yamlSlot struct {
	Slot  int             `yaml:"slot"`
	Bytes [2]int          `yaml:"bytes,flow"`
	Type  config.DataType `yaml:"type"`
	Title string          `yaml:"title"`
}

type yamlFrame struct {
	ID    string     `yaml:"id"`
	Slots []yamlSlot `yaml:"slots"`
}

type yamlReport struct {
	Frames   []yamlFrame `yaml:"frames"`
	Findings []string    `yaml:"findings,omitempty"`
}

// run prints the slot layout of cfg and returns the number of lint findings.
func run(w io.Writer, cfg *config.Config, format string) (int, error) {
	slots := config.SlotMap(cfg)
	ids := make([]uint32, 0, len(slots))
	for id := range slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	findings := config.Lint(cfg)

	switch format {
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSLOT\tBYTES\tTYPE\tTITLE")
		for _, id := range ids {
			for _, s := range slots[id] {
				fmt.Fprintf(tw, "0x%03X\t%d\t%d..%d\t%s\t%s\n", id, s.SlotID, s.Start, s.End-1, s.Type, s.Title)
			}
		}
		if err := tw.Flush(); err != nil {
			return 0, err
		}
		for _, f := range findings {
			fmt.Fprintln(w, "warning:", f)
		}
	case "yaml":
		var rep yamlReport
		for _, id := range ids {
			fr := yamlFrame{ID: fmt.Sprintf("0x%03X", id)}
			for _, s := range slots[id] {
				fr.Slots = append(fr.Slots, yamlSlot{Slot: s.SlotID, Bytes: [2]int{s.Start, s.End - 1}, Type: s.Type, Title: s.Title})
			}
			rep.Frames = append(rep.Frames, fr)
		}
		rep.Findings = findings
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return 0, err
		}
		if err := enc.Close(); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown format %q", format)
	}
	return len(findings), nil
}
