package summary

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
)

const (
	fontName = "Times New Roman"
	fontSize = 12
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// Export renders the summary followed by the full transcript.
func (s *implService) Export(ctx context.Context, title string, res *Result) ([]byte, error) {
	if res == nil || strings.TrimSpace(res.Summary) == "" {
		return nil, apperror.New(apperror.Internal, "nothing to export")
	}
	if title == "" {
		title = "Meeting Summary"
	}

	if s.tempDir != "" {
		if err := os.MkdirAll(s.tempDir, 0755); err != nil {
			return nil, apperror.Wrap(err, apperror.Internal, "create temp dir")
		}
	}
	f, err := os.CreateTemp(s.tempDir, "summary-*.docx")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "create docx file")
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := writeDocx(title, res, path); err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "render docx")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "read docx")
	}
	s.logger.Debug(ctx, "Rendered %d byte docx for %q", len(data), title)
	return data, nil
}

// writeDocx converts markdown to a styled document at outputPath.
func writeDocx(title string, res *Result, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	for _, line := range strings.Split(res.Summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		if reNumbered.MatchString(trimmed) {
			addRichText(doc.AddParagraph(""), trimmed)
			continue
		}
		addRichText(doc.AddParagraph(""), trimmed)
	}

	if t := strings.TrimSpace(res.Transcription); t != "" {
		addStyledRun(doc.AddParagraph(""), "Transcript", true, 14)
		doc.AddParagraph("").AddText(t).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(outputPath)
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans as bold runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
