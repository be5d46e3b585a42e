package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/client/api"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/client/services"
	"github.com/dmitrijs2005/secdesk/internal/client/table"
)

const lettersTable = "letters"

// view is a table on screen.
type view struct {
	name     string
	preset   table.Preset
	resource api.Resource
	model    *table.Model
	vis      *table.Visibility
	source   table.PageSource
}

func (v *view) isLetters() bool { return v.name == lettersTable }

func (a *App) tableNames() []string {
	names := make([]string, 0, len(a.presets))
	for n := range a.presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open shows a table: "open <table> [listing]". The listing names an extra
// collection such as active/ on permits.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("الجداول:", strings.Join(a.tableNames(), ", "))
		return nil
	}
	name := args[0]
	p, ok := a.presets[name]
	if !ok {
		return fmt.Errorf("unknown table %q", name)
	}

	cfg := p.Config()
	v := &view{name: name, preset: p}

	if name == lettersTable {
		lookups, err := a.letters.LoadLookups(ctx)
		if err != nil {
			return err
		}
		applyLookups(cfg.Columns, lookups)
		cfg.Save = a.letters.SaveField
		v.source = a.sources(api.PathCorrespondence)
		v.model = table.New(a.letters.List, withSortReport(cfg, a))
	} else {
		r, ok := api.Resources[name]
		if !ok {
			return fmt.Errorf("table %q has no resource", name)
		}
		v.resource = r
		v.source = a.sources(r.Path)
		load := a.resources.Loader(r)
		if len(args) > 1 {
			action := strings.TrimSuffix(args[1], "/") + "/"
			if !r.HasAction(action) {
				return fmt.Errorf("%s has no %q listing", name, action)
			}
			load = func(ctx context.Context, _ api.ListParams) (*models.Page[models.Record], error) {
				return a.resources.Action(ctx, r, action)
			}
			v.name = name + ":" + strings.TrimSuffix(action, "/")
		}
		cfg.Save = func(ctx context.Context, rowID int64, field, value string) table.SaveResult {
			return a.resources.SaveField(ctx, r, rowID, field, value)
		}
		v.model = table.New(load, withSortReport(cfg, a))
	}

	vis, err := table.LoadVisibility(ctx, a.repos.Metadata, p.StorageKey, cfg.Columns)
	if err != nil {
		return err
	}
	v.vis = vis

	a.setView(v)
	if err := v.model.Reload(ctx); err != nil {
		a.draw(v)
		return err
	}
	a.draw(v)
	return nil
}

func withSortReport(cfg table.Config, a *App) table.Config {
	cfg.OnSort = func(s table.Sort) {
		a.logger.Debug(context.Background(), "sort changed", "field", s.Field, "dir", s.Dir)
	}
	return cfg
}

// applyLookups turns the letter relation columns into select columns.
func applyLookups(cols []table.Column, l *services.Lookups) {
	for i, c := range cols {
		switch c.ID {
		case "type":
			opts := make([]table.Option, 0, len(l.Types))
			for _, t := range l.Types {
				opts = append(opts, table.Option{Value: strconv.FormatInt(t.ID, 10), Label: t.TypeName})
			}
			cols[i].Options = opts
		case "current_status":
			opts := make([]table.Option, 0, len(l.Procedures))
			for _, p := range l.Procedures {
				opts = append(opts, table.Option{Value: strconv.FormatInt(p.ID, 10), Label: p.ProcedureName})
			}
			cols[i].Options = opts
		}
	}
}

func (a *App) draw(v *view) {
	printlnFn(v.preset.Title)
	printlnFn(a.renderer.Render(v.model, v.vis.Columns()))
}

func (a *App) requireView() (*view, error) {
	v := a.currentView()
	if v == nil {
		return nil, errNoTable
	}
	return v, nil
}

// Page moves through the table: next, prev, page <n>, more.
func (a *App) Page(ctx context.Context, cmd string, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	m := v.model

	switch cmd {
	case "more":
		ok, err := m.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !ok && !m.HasMore() {
			printlnFn("لا توجد بيانات إضافية")
		}
	case "next":
		err = m.GoToPage(ctx, m.Page()+1)
	case "prev":
		err = m.GoToPage(ctx, m.Page()-1)
	case "page":
		if len(args) == 0 {
			return fmt.Errorf("usage: page <n>")
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("%w: %q", errBadChoice, args[0])
		}
		err = m.GoToPage(ctx, n)
	case "refresh":
		err = m.Reload(ctx)
	}
	a.draw(v)
	return err
}

// Sort cycles the sort of a column.
func (a *App) Sort(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: sort <column>")
	}
	if _, err := v.model.ToggleSort(ctx, args[0]); err != nil {
		return err
	}
	a.draw(v)
	return nil
}

// Search sets the global search term; no argument clears it.
func (a *App) Search(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if err := v.model.SetSearch(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	a.draw(v)
	return nil
}

// ClearFilters drops filters, search and sort.
func (a *App) ClearFilters(ctx context.Context) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if err := v.model.ClearAllFilters(ctx); err != nil {
		return err
	}
	a.draw(v)
	return nil
}

// Filter opens the value filter of a column. The distinct values are
// listed with the current selection; the answer is "all", "none",
// numbers, or "/term" to narrow the list first.
func (a *App) Filter(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: filter <column>")
	}
	col, ok := findColumn(v.model.Columns(), args[0])
	if !ok || !col.Filterable {
		return fmt.Errorf("%w: %s", errNotAllowed, args[0])
	}

	values, err := table.DistinctValues(ctx, v.source, col.ID, v.model.Extra())
	if err != nil {
		return err
	}
	f := table.NewColumnFilter(col.ID, values, v.model.Filter(col.ID))

	for {
		visible := f.Visible()
		printlnFn(fmt.Sprintf("%s (%d)", col.Label, len(visible)))
		for i, val := range visible {
			mark := " "
			if f.IsSelected(val) {
				mark = "x"
			}
			printlnFn(fmt.Sprintf("  [%s] %d. %s", mark, i+1, col.DisplayValue(val)))
		}

		answer, err := getSimpleText(a.reader, "اختر (all / none / أرقام / /بحث / فارغ للتطبيق)", a.out)
		if err != nil {
			return err
		}
		if answer == "" {
			break
		}
		if strings.HasPrefix(answer, "/") {
			f.SetSearch(strings.TrimPrefix(answer, "/"))
			continue
		}

		all, none, picks, err := ParseSelection(answer, len(visible))
		if err != nil {
			report(err)
			continue
		}
		switch {
		case all:
			f.SelectAll()
		case none:
			f.Clear()
		default:
			for _, i := range picks {
				f.Toggle(visible[i])
			}
		}
	}

	if err := f.Apply(ctx, v.model); err != nil {
		return err
	}
	a.draw(v)
	return nil
}

// Unfilter clears the filter of one column.
func (a *App) Unfilter(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: unfilter <column>")
	}
	if err := v.model.ClearFilter(ctx, args[0]); err != nil {
		return err
	}
	a.draw(v)
	return nil
}

// Advanced manages operator filters: adv [clear | <column> <op> [value...]].
// Without arguments it lists the active ones.
func (a *App) Advanced(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}

	switch {
	case len(args) == 0:
		active := v.model.Advanced()
		if len(active) == 0 {
			printlnFn("لا توجد تصفية متقدمة")
			return nil
		}
		for i, f := range active {
			printlnFn(fmt.Sprintf("  %d. %s", i+1, f))
		}
		return nil
	case len(args) == 1 && args[0] == "clear":
		if err := v.model.SetAdvanced(ctx, nil); err != nil {
			return err
		}
		a.draw(v)
		return nil
	case len(args) < 2:
		return fmt.Errorf("usage: adv <column> <op> [value...]")
	}

	col, ok := findColumn(v.model.Columns(), args[0])
	if !ok || !col.Filterable {
		return fmt.Errorf("%w: %s", errNotAllowed, args[0])
	}
	op, ok := table.ParseOperator(args[1])
	if !ok {
		return fmt.Errorf("%w: %s", table.ErrBadAdvanced, args[1])
	}
	f, err := table.NewAdvanced(table.FilterPath(col.ID), op, args[2:])
	if err != nil {
		return err
	}
	if err := v.model.AddAdvanced(ctx, f); err != nil {
		return err
	}
	a.draw(v)
	return nil
}

// Columns manages column visibility: columns [show|hide <id>] [all|none|reset].
func (a *App) Columns(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		switch args[0] {
		case "all":
			err = v.vis.ShowAll(ctx)
		case "none":
			err = v.vis.HideAll(ctx)
		case "reset":
			err = v.vis.Reset(ctx)
		case "show", "hide", "toggle":
			if len(args) < 2 {
				return fmt.Errorf("usage: columns %s <column>", args[0])
			}
			id := args[1]
			if _, ok := findColumn(v.model.Columns(), id); !ok {
				return fmt.Errorf("unknown column %q", id)
			}
			want := args[0] == "show"
			if args[0] == "toggle" || v.vis.IsVisible(id) != want {
				err = v.vis.Toggle(ctx, id)
			}
		default:
			return fmt.Errorf("unknown columns action %q", args[0])
		}
		if err != nil {
			return err
		}
	}

	shown, total := v.vis.Counts()
	printlnFn(fmt.Sprintf("الأعمدة الظاهرة %d من %d", shown, total))
	for _, c := range v.model.Columns() {
		mark := " "
		if v.vis.IsVisible(c.ID) {
			mark = "x"
		}
		printlnFn(fmt.Sprintf("  [%s] %s (%s)", mark, c.Label, c.ID))
	}
	return nil
}

// Edit edits one cell inline: edit <rowID> <column>. The answer is the
// new value (empty clears it); "!cancel" reverts.
func (a *App) Edit(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: edit <id> <column>")
	}
	id, err := ParseID(args[0])
	if err != nil {
		return err
	}
	row, ok := v.model.Row(id)
	if !ok {
		return fmt.Errorf("row %d is not on screen", id)
	}
	col, ok := findColumn(v.model.Columns(), args[1])
	if !ok {
		return fmt.Errorf("unknown column %q", args[1])
	}

	cell := table.NewEditCell(col, id, col.Value(row))
	if !cell.Start() {
		return fmt.Errorf("%w: %s", errNotAllowed, col.ID)
	}
	if len(col.Options) > 0 {
		for _, o := range col.Options {
			printlnFn(fmt.Sprintf("  %s = %s", o.Value, o.Label))
		}
	}

	for cell.State() == table.CellEditing {
		var draft string
		if col.Multiline {
			draft, err = GetMultiline(a.reader, fmt.Sprintf("%s [%s]", col.Label, cell.Display()), a.out)
		} else {
			draft, err = getSimpleText(a.reader, fmt.Sprintf("%s [%s]", col.Label, cell.Draft()), a.out)
		}
		if err != nil {
			cell.Cancel()
			return err
		}
		if draft == "!cancel" {
			cell.Key(ctx, "escape", v.model.Save)
			break
		}
		cell.SetDraft(draft)
		cell.Commit(ctx, v.model.Save)
		if cell.State() == table.CellEditing {
			printlnFn(cell.Err())
		}
	}

	a.draw(v)
	return nil
}

// Show prints one record: the letter detail for letters, the raw record
// otherwise.
func (a *App) Show(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: show <id>")
	}
	id, err := ParseID(args[0])
	if err != nil {
		return err
	}

	if v.isLetters() {
		d, err := a.letters.Detail(ctx, id)
		if err != nil {
			return err
		}
		printLetter(d)
		return nil
	}

	rec, err := a.resources.Get(ctx, v.resource, id)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printlnFn(fmt.Sprintf("%s: %s", k, table.ExtractValue(rec, k)))
	}
	return nil
}

func printLetter(d *models.LetterDetail) {
	l := d.Letter
	printlnFn(fmt.Sprintf("%s | %s", l.ReferenceNumber, l.Subject))
	printlnFn("التاريخ:", table.FormatDate(l.CorrespondenceDate))
	if l.Type != nil {
		printlnFn("النوع:", l.Type.TypeName)
	}
	if l.CurrentStatus != nil {
		printlnFn("الحالة:", l.CurrentStatus.ProcedureName)
	}
	if l.Contact != nil {
		printlnFn("الجهة:", l.Contact.Name)
	}
	if l.Summary != "" {
		printlnFn(l.Summary)
	}
	for _, at := range l.Attachments {
		printlnFn(fmt.Sprintf("  📎 %s", at.FileName))
	}
	for _, s := range d.StatusHistory {
		printlnFn(fmt.Sprintf("  %s  %s  %s", s.CreatedAt.Format("2006-01-02 15:04"), s.ChangedByUsername, s.ChangeReason))
	}
}

// Add creates a record from name=value lines.
func (a *App) Add(ctx context.Context) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if v.isLetters() {
		return a.NewLetter(ctx)
	}

	fmt.Fprintln(a.out, "أدخل الحقول بصيغة name=value (سطر فارغ للإنهاء)")
	rec, err := ParseFields(GetLines(a.reader))
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	_, msg, err := a.resources.Create(ctx, v.resource, rec)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return a.Page(ctx, "refresh", nil)
}

// Delete removes a record after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	v, err := a.requireView()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := ParseID(args[0])
	if err != nil {
		return err
	}

	ok, err := a.confirm(fmt.Sprintf("حذف %d؟ (y/n)", id))
	if err != nil || !ok {
		return err
	}

	if v.isLetters() {
		if err := a.letters.Delete(ctx, id); err != nil {
			return err
		}
		printlnFn(services.MsgLetterDeleted)
	} else {
		msg, err := a.resources.Delete(ctx, v.resource, id)
		if err != nil {
			return err
		}
		printlnFn(msg)
	}
	return a.Page(ctx, "refresh", nil)
}

func (a *App) confirm(prompt string) (bool, error) {
	answer, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

func findColumn(cols []table.Column, id string) (table.Column, bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return table.Column{}, false
}
