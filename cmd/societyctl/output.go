package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML round-trips v through JSON so the API's field names are kept.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(generic)
}

// write renders v in the selected format; table falls back to the given
// table writer.
func write(w io.Writer, format string, v any, table func(*tabwriter.Writer)) error {
	switch format {
	case outputJSON:
		return writeJSON(w, v)
	case outputYAML:
		return writeYAML(w, v)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func recordTable(records []domain.Record, now time.Time) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tSTATUS\tDETAILS\tACTIONS")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.RecordID(), r.StatusLabel(now), details(r), actionList(r.Actions(now)))
		}
	}
}

func details(r domain.Record) string {
	var parts []string
	for _, f := range r.SearchFields() {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
		if len(parts) == 3 {
			break
		}
	}
	return strings.Join(parts, " / ")
}

func actionList(actions []domain.Action) string {
	var names []string
	for _, a := range actions {
		if a == domain.ActionView {
			continue
		}
		names = append(names, string(a))
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

// explain turns API failures into something a terminal user can act on.
func explain(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return errors.New("session expired: the stored token was removed, run \"societyctl login\" again")
	}
	if msg := domain.ServerMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}
