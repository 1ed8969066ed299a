// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging builds the structured logger shared by the CLI and the
// gateway components. Output goes to stderr so stdout stays reserved for
// command results.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Formats understood by New.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Options configures a logger.
type Options struct {
	Level  string
	Format string
	Prefix string
}

// New creates a logger writing to w. An empty level means info and an empty
// format means text.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	formatter, err := parseFormatter(opts.Format)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:     level,
		Prefix:    opts.Prefix,
		Formatter: formatter,
	}), nil
}

// Discard returns a logger that drops everything. Tests and library callers
// that do not care about warnings use it.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

func parseFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return log.TextFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q, expected one of: text, json, logfmt", format)
	}
}
