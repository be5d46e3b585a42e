package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/client/letters"
	"github.com/dmitrijs2005/secdesk/internal/client/services"
	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/filex"
)

const parentMatches = 10

// NewLetter walks through the incoming-letter form. Files come first so
// a conventional file name can fill reference, date and subject.
func (a *App) NewLetter(ctx context.Context) error {
	if !a.store.CanCreateCorrespondence() {
		return &services.SubmitError{Message: letters.MsgNoCreatePermission}
	}

	lookups, err := a.letters.LoadLookups(ctx)
	if err != nil {
		return err
	}

	form := &letters.Form{}
	form.Reset(time.Now(), lookups.Contacts)

	fmt.Fprintln(a.out, "مسارات الملفات، سطر لكل ملف (سطر فارغ للإنهاء)")
	files, skipped := readAttachments(GetLines(a.reader))
	for _, s := range skipped {
		printlnFn(fmt.Sprintf("تم تجاهل %s: %s", s.Name, s.Reason))
	}

	rep := a.letters.AddFiles(ctx, form, files)
	for _, n := range rep.Added {
		printlnFn("✓", n)
	}
	for _, s := range rep.Skipped {
		printlnFn(fmt.Sprintf("تم تجاهل %s: %s", s.Name, s.Reason))
	}
	if rep.AutoFilled {
		printlnFn("تم تعبئة البيانات من اسم الملف:", rep.FilledFrom)
	}

	if err := a.fillForm(form, lookups); err != nil {
		return err
	}

	res, err := a.letters.Submit(ctx, form)
	if err != nil {
		return err
	}
	printlnFn(res.Message)

	if v := a.currentView(); v != nil && v.isLetters() {
		return a.Page(ctx, "refresh", nil)
	}
	return nil
}

func (a *App) fillForm(form *letters.Form, l *services.Lookups) error {
	var err error

	if form.ReferenceNumber, err = GetDefault(a.reader, "الرقم المرجعي", form.ReferenceNumber, a.out); err != nil {
		return err
	}
	if form.Date, err = GetDefault(a.reader, "التاريخ (YYYY-MM-DD)", form.Date, a.out); err != nil {
		return err
	}
	if form.Subject, err = GetDefault(a.reader, "الموضوع", form.Subject, a.out); err != nil {
		return err
	}

	for _, t := range l.Types {
		printlnFn(fmt.Sprintf("  %d = %s", t.ID, t.TypeName))
	}
	typeID, err := a.pickID("نوع الخطاب", 0)
	if err != nil {
		return err
	}
	form.SelectType(typeID, l.Procedures)

	if procs := l.ProceduresOf(typeID); len(procs) > 0 {
		for _, p := range procs {
			printlnFn(fmt.Sprintf("  %d = %s", p.ID, p.ProcedureName))
		}
		if form.CurrentStatus, err = a.pickID("الحالة", form.CurrentStatus); err != nil {
			return err
		}
	}

	priority, err := GetDefault(a.reader, "الأولوية (high/normal/low)", form.Priority, a.out)
	if err != nil {
		return err
	}
	switch priority {
	case common.PriorityHigh, common.PriorityNormal, common.PriorityLow:
		form.Priority = priority
	}

	for _, c := range l.Contacts {
		printlnFn(fmt.Sprintf("  %d = %s", c.ID, c.Name))
	}
	if form.Contact, err = a.pickID("الجهة", form.Contact); err != nil {
		return err
	}

	term, err := getSimpleText(a.reader, "بحث عن الخطاب السابق (فارغ للتخطي)", a.out)
	if err != nil {
		return err
	}
	if matches := letters.SearchParents(l.Parents, term, parentMatches); len(matches) > 0 {
		for _, m := range matches {
			printlnFn(fmt.Sprintf("  %s = %s | %s", m.String("correspondence_id"), m.String("reference_number"), m.String("subject")))
		}
		parent, err := a.pickID("الخطاب السابق", 0)
		if err != nil {
			return err
		}
		if parent != 0 {
			form.ParentCorrespondence = &parent
		}
	}

	form.Summary, err = GetMultiline(a.reader, "الملخص", a.out)
	return err
}

// pickID reads an id; an empty answer keeps def.
func (a *App) pickID(prompt string, def int64) (int64, error) {
	d := ""
	if def != 0 {
		d = strconv.FormatInt(def, 10)
	}
	answer, err := GetDefault(a.reader, prompt, d, a.out)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return 0, nil
	}
	return ParseID(answer)
}

// readAttachments loads the files at paths.
func readAttachments(paths []string) ([]letters.Attachment, []letters.Skipped) {
	var files []letters.Attachment
	var skipped []letters.Skipped
	for _, p := range paths {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Clean(p))
		if err != nil {
			skipped = append(skipped, letters.Skipped{Name: p, Reason: err.Error()})
			continue
		}
		name := filepath.Base(p)
		files = append(files, letters.Attachment{
			Name:     name,
			MimeType: filex.DetectMime(name, data),
			Data:     data,
		})
	}
	return files, skipped
}
