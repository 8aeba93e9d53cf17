package parser

import (
	"regexp"
	"strconv"
	"strings"

	"logreader-backend/internal/model"

	"github.com/rs/zerolog/log"
)

// ContinuationMarker starts a block that belongs to the preceding entry.
const ContinuationMarker = "Next"

type ParseOptions struct {
	// Class keeps only entries whose class equals it. Empty keeps everything.
	Class string
	// Source is the file the content came from, used for logging only.
	Source string
}

type ParseResult struct {
	Entries []model.RawEntry
	// Rewritten is the content with every continuation marker replaced by
	// the header of the entry it continues.
	Rewritten    string
	NeedsRewrite bool
	// Skipped counts continuation blocks that had no entry to attach to.
	Skipped int
}

type LogParser interface {
	ParseContent(content string, opts ParseOptions) ParseResult
	ParseContext(body string) model.LogContext
	ParseStackTrace(body string) []model.StackFrame
}

type laravelLogParser struct {
	anchorRegex     *regexp.Regexp
	classRegex      *regexp.Regexp
	objectRegex     *regexp.Regexp
	legacyRegex     *regexp.Regexp
	plainRegex      *regexp.Regexp
	stackFrameRegex *regexp.Regexp
}

func NewLaravelLogParser() LogParser {
	return &laravelLogParser{
		// Groups: 1:Date, 2:Environment, 3:Level. A continuation leaves them unset.
		anchorRegex: regexp.MustCompile(`(?m)^(?:\[([^\]\n]+)\] ([\w-]+)\.([A-Z]+):|` + ContinuationMarker + `:?)`),
		classRegex:  regexp.MustCompile(`^[ \t]*\|([^|\n]+)\|`),
		// [object] (RuntimeException(code: 0): message at /path/file.php:12)
		objectRegex: regexp.MustCompile(`\(([\w\\]+)\(code: -?\d+\): (.*) at (\S+):(\d+)\)`),
		// exception 'RuntimeException' with message 'message' in /path/file.php:12
		legacyRegex: regexp.MustCompile(`exception '([^']+)' with message '(.*)' in (\S+):(\d+)`),
		// RuntimeException: message in /path/file.php:12
		plainRegex:      regexp.MustCompile(`(?m)^(?:` + ContinuationMarker + ` )?([\w\\]+): (.*) in (\S+):(\d+)$`),
		stackFrameRegex: regexp.MustCompile(`(?m)^#\d+ (?:(.+?)\((\d+)\)|(\[internal function\])): (.*)$`),
	}
}

var entryStartRegex = regexp.MustCompile(`^\[[^\]\n]+\] [\w-]+\.[A-Z]+:`)

// StartsEntry reports whether s begins with the header of a new entry.
// Continuation markers do not count.
func StartsEntry(s string) bool {
	return entryStartRegex.MatchString(s)
}

type segment struct {
	date, environment, level string
	header, body             string
	offset                   int
}

func (s segment) isContinuation() bool {
	return s.date == ""
}

// continuationEnds reports whether a "Next" anchor ending at end is followed
// by a space, a tab or the end of the line, so "Next-gen" stays message text.
func continuationEnds(content string, end int) bool {
	if end == len(content) {
		return true
	}
	switch content[end] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func (p *laravelLogParser) segments(content string) (string, []segment) {
	all := p.anchorRegex.FindAllStringSubmatchIndex(content, -1)
	matches := all[:0]
	for _, m := range all {
		if m[2] < 0 && !continuationEnds(content, m[1]) {
			continue
		}
		matches = append(matches, m)
	}
	if len(matches) == 0 {
		return content, nil
	}

	segments := make([]segment, 0, len(matches))
	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		seg := segment{
			header: content[m[0]:m[1]],
			body:   content[m[1]:end],
			offset: m[0],
		}
		if m[2] >= 0 {
			seg.date = content[m[2]:m[3]]
			seg.environment = content[m[4]:m[5]]
			seg.level = content[m[6]:m[7]]
		}
		segments = append(segments, seg)
	}
	return content[:matches[0][0]], segments
}

func (p *laravelLogParser) ParseContent(content string, opts ParseOptions) ParseResult {
	var result ParseResult
	if content == "" {
		return result
	}

	preamble, segments := p.segments(content)

	var rewritten strings.Builder
	rewritten.Grow(len(content))
	rewritten.WriteString(preamble)

	entries := make([]model.RawEntry, 0, len(segments))
	for _, seg := range segments {
		if !seg.isContinuation() {
			entries = append(entries, model.RawEntry{
				Date:        seg.date,
				Environment: seg.environment,
				Level:       seg.level,
				Class:       p.classOf(seg.body),
				Header:      seg.header,
				Body:        seg.body,
				Offset:      seg.offset,
			})
			rewritten.WriteString(seg.header)
			rewritten.WriteString(seg.body)
			continue
		}

		if len(entries) == 0 {
			log.Warn().Str("file", opts.Source).Msg("Continuation block without a preceding entry, skipping")
			result.Skipped++
			rewritten.WriteString(seg.header)
			rewritten.WriteString(seg.body)
			continue
		}

		prev := &entries[len(entries)-1]
		prev.Body += seg.header + seg.body
		prev.Continuations++

		rewritten.WriteString(prev.Header)
		rewritten.WriteString(seg.body)
		result.NeedsRewrite = true
	}

	if opts.Class != "" {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.Class == opts.Class {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	result.Entries = entries
	result.Rewritten = rewritten.String()

	log.Debug().
		Str("file", opts.Source).
		Int("segments", len(segments)).
		Int("entries", len(entries)).
		Bool("needs_rewrite", result.NeedsRewrite).
		Msg("Parsed log content")
	return result
}

func (p *laravelLogParser) classOf(body string) string {
	if m := p.classRegex.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// DisplayBody removes the first |class| marker from body and trims it.
func DisplayBody(body, class string) string {
	if class != "" {
		if i := strings.Index(body, "|"); i >= 0 {
			if j := strings.Index(body[i+1:], "|"); j >= 0 && strings.TrimSpace(body[i+1:i+1+j]) == class {
				body = body[:i] + body[i+j+2:]
			}
		}
	}
	return strings.TrimSpace(body)
}

func (p *laravelLogParser) ParseContext(body string) model.LogContext {
	for _, re := range []*regexp.Regexp{p.objectRegex, p.legacyRegex, p.plainRegex} {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[4])
		return model.LogContext{
			Exception: m[1],
			Message:   m[2],
			In:        m[3],
			Line:      line,
		}
	}

	message := strings.TrimSpace(body)
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = strings.TrimSpace(message[:i])
	}
	return model.LogContext{Message: message}
}

func (p *laravelLogParser) ParseStackTrace(body string) []model.StackFrame {
	matches := p.stackFrameRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	frames := make([]model.StackFrame, 0, len(matches))
	for _, m := range matches {
		frame := model.StackFrame{File: m[1], Call: strings.TrimSpace(m[4])}
		if m[3] != "" {
			frame.File = m[3]
		} else {
			frame.Line, _ = strconv.Atoi(m[2])
		}
		frames = append(frames, frame)
	}
	return frames
}
