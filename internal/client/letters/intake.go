package letters

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secdesk/internal/client/api"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/filex"
	"github.com/dmitrijs2005/secdesk/internal/logging"
)

// MsgProcessor extracts the attachments of an Outlook message.
type MsgProcessor interface {
	ProcessMsg(ctx context.Context, f api.File) (*models.ProcessMsgResponse, error)
}

// Skipped is a file the intake refused.
type Skipped struct {
	Name   string
	Reason string
}

// IntakeReport tells what happened to a batch of files.
type IntakeReport struct {
	Added      []string
	Skipped    []Skipped
	AutoFilled bool
	// FilledFrom names the file whose name filled the form.
	FilledFrom string
}

// Intake routes dropped files into a form.
type Intake struct {
	processor MsgProcessor
	logger    logging.Logger

	// MaxSize is the per-file limit in bytes.
	MaxSize int64
}

func NewIntake(p MsgProcessor, l logging.Logger) *Intake {
	if l == nil {
		l = logging.Nop{}
	}
	return &Intake{processor: p, logger: l, MaxSize: filex.MaxAttachmentSize}
}

// Add appends files to form. Regular files are attached as they are;
// .msg files are sent for extraction and their contents attached instead.
// Files over MaxSize are skipped. The first file name that
// follows the letter naming convention fills reference, date and subject.
// Extraction failures are reported, never returned.
func (in *Intake) Add(ctx context.Context, form *Form, files []Attachment) IntakeReport {
	var rep IntakeReport
	var regular, messages []Attachment

	for _, f := range files {
		if f.Size() > in.MaxSize {
			rep.Skipped = append(rep.Skipped, Skipped{
				Name:   f.Name,
				Reason: fmt.Sprintf("الملف كبير جداً (%s)", filex.HumanSize(f.Size())),
			})
			continue
		}
		if filex.IsOutlookMessage(f.Name) {
			messages = append(messages, f)
		} else {
			regular = append(regular, f)
		}
	}

	if len(regular) > 0 {
		in.attach(form, regular, &rep)
	}

	for _, m := range messages {
		extracted, err := in.extract(ctx, m)
		if err != nil {
			in.logger.Warn(ctx, "msg extraction failed", "file", m.Name, "error", err)
			rep.Skipped = append(rep.Skipped, Skipped{Name: m.Name, Reason: err.Error()})
			continue
		}
		if len(extracted) == 0 {
			in.logger.Info(ctx, "no attachments in message", "file", m.Name)
			continue
		}
		in.attach(form, extracted, &rep)
	}

	return rep
}

func (in *Intake) attach(form *Form, files []Attachment, rep *IntakeReport) {
	for i := range files {
		if files[i].MimeType == "" {
			files[i].MimeType = filex.DetectMime(files[i].Name, files[i].Data)
		}
		rep.Added = append(rep.Added, files[i].Name)
	}
	form.AddAttachments(files...)

	for _, f := range files {
		if form.ApplyLetterName(f.Name) {
			rep.AutoFilled = true
			rep.FilledFrom = f.Name
			return
		}
	}
}

func (in *Intake) extract(ctx context.Context, m Attachment) ([]Attachment, error) {
	if in.processor == nil {
		return nil, errors.New("message extraction unavailable")
	}
	res, err := in.processor.ProcessMsg(ctx, api.File{
		Name:        m.Name,
		ContentType: "application/vnd.ms-outlook",
		Data:        m.Data,
	})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		if res.Error != "" {
			return nil, errors.New(res.Error)
		}
		return nil, fmt.Errorf("failed to process %s", m.Name)
	}

	out := make([]Attachment, 0, len(res.Attachments))
	for _, ea := range res.Attachments {
		a, err := DecodeExtracted(ea)
		if err != nil {
			in.logger.Warn(ctx, "bad extracted attachment", "file", ea.Name, "error", err)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// DecodeExtracted turns a hex-encoded extracted file into an Attachment.
func DecodeExtracted(ea models.ExtractedAttachment) (Attachment, error) {
	data, err := hex.DecodeString(ea.Data)
	if err != nil {
		return Attachment{}, fmt.Errorf("decode %s: %w", ea.Name, err)
	}
	mt := ea.MimeType
	if mt == "" {
		mt = "application/octet-stream"
	}
	return Attachment{Name: ea.Name, MimeType: mt, Data: data}, nil
}

// Files converts attachments into upload parts.
func Files(atts []Attachment) []api.File {
	out := make([]api.File, 0, len(atts))
	for _, a := range atts {
		out = append(out, api.File{Name: a.Name, ContentType: a.MimeType, Data: a.Data})
	}
	return out
}
