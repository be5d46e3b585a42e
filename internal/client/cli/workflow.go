package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/client/letters"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/client/services"
)

// Types manages letter types:
//
//	types                     list
//	types add                 create (prompts)
//	types edit <id>           rename / recategorize
//	types del <id>            delete with its procedures
func (a *App) Types(ctx context.Context, args []string) error {
	types, err := a.workflow.Types(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, t := range types {
			printlnFn(fmt.Sprintf("  %d  %s  [%s]", t.ID, t.TypeName, t.Category))
		}
		return nil
	}

	switch args[0] {
	case "add":
		return a.saveType(ctx, models.CorrespondenceType{Category: letters.DefaultTypeCategory})
	case "edit":
		t, err := pickType(types, args[1:])
		if err != nil {
			return err
		}
		return a.saveType(ctx, t)
	case "del":
		t, err := pickType(types, args[1:])
		if err != nil {
			return err
		}
		ok, err := a.confirm(services.MsgTypeDeleteConfirm + " (y/n)")
		if err != nil || !ok {
			return err
		}
		msg, err := a.workflow.DeleteType(ctx, t.ID)
		if err != nil {
			return err
		}
		printlnFn(msg)
		return nil
	}
	return fmt.Errorf("unknown types action %q", args[0])
}

func pickType(types []models.CorrespondenceType, args []string) (models.CorrespondenceType, error) {
	if len(args) == 0 {
		return models.CorrespondenceType{}, services.ErrNoTypeSelected
	}
	id, err := ParseID(args[0])
	if err != nil {
		return models.CorrespondenceType{}, err
	}
	for _, t := range types {
		if t.ID == id {
			return t, nil
		}
	}
	return models.CorrespondenceType{}, fmt.Errorf("type %d not found", id)
}

func (a *App) saveType(ctx context.Context, t models.CorrespondenceType) error {
	var err error
	if t.TypeName, err = GetDefault(a.reader, "اسم النوع", t.TypeName, a.out); err != nil {
		return err
	}
	if t.Category, err = GetDefault(a.reader, "الفئة", t.Category, a.out); err != nil {
		return err
	}
	_, msg, err := a.workflow.SaveType(ctx, t)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

// Procedures manages the procedures of one type:
//
//	procs <type>              list in order
//	procs <type> add          append a procedure
//	procs <type> edit <id>    edit a procedure
//	procs <type> del <id>     delete a procedure
func (a *App) Procedures(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return services.ErrNoTypeSelected
	}
	typeID, err := ParseID(args[0])
	if err != nil {
		return err
	}
	procs, err := a.workflow.Procedures(ctx, typeID)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		printProcedures(procs)
		return nil
	}

	switch args[1] {
	case "add":
		p, err := a.workflow.NewProcedure(typeID, procs)
		if err != nil {
			return err
		}
		return a.saveProcedure(ctx, p, procs)
	case "edit", "del":
		if len(args) < 3 {
			return fmt.Errorf("usage: procs <type> %s <id>", args[1])
		}
		id, err := ParseID(args[2])
		if err != nil {
			return err
		}
		var p *models.Procedure
		for i := range procs {
			if procs[i].ID == id {
				p = &procs[i]
			}
		}
		if p == nil {
			return fmt.Errorf("procedure %d not found", id)
		}
		if args[1] == "edit" {
			return a.saveProcedure(ctx, *p, procs)
		}
		msg, err := a.workflow.DeleteProcedure(ctx, id)
		if err != nil {
			return err
		}
		printlnFn(msg)
		return nil
	}
	return fmt.Errorf("unknown procs action %q", args[1])
}

func (a *App) saveProcedure(ctx context.Context, p models.Procedure, siblings []models.Procedure) error {
	var err error
	if p.ProcedureName, err = GetDefault(a.reader, "اسم الإجراء", p.ProcedureName, a.out); err != nil {
		return err
	}
	if p.Description, err = GetDefault(a.reader, "الوصف", p.Description, a.out); err != nil {
		return err
	}
	order, err := GetDefault(a.reader, "الترتيب", strconv.Itoa(p.ProcedureOrder), a.out)
	if err != nil {
		return err
	}
	if n, convErr := strconv.Atoi(order); convErr == nil && n > 0 {
		p.ProcedureOrder = n
	}
	if p.IsInitial, err = a.askBool("إجراء ابتدائي؟", p.IsInitial); err != nil {
		return err
	}
	if p.IsFinal, err = a.askBool("إجراء نهائي؟", p.IsFinal); err != nil {
		return err
	}

	saved, msg, err := a.workflow.SaveProcedure(ctx, p)
	if err != nil {
		return err
	}
	printlnFn(msg)

	after := make([]models.Procedure, 0, len(siblings)+1)
	replaced := false
	for _, s := range siblings {
		if s.ID == saved.ID {
			after = append(after, *saved)
			replaced = true
			continue
		}
		after = append(after, s)
	}
	if !replaced {
		after = append(after, *saved)
	}
	for _, w := range services.ExclusivityWarnings(after) {
		printlnFn("⚠", w)
	}
	return nil
}

func (a *App) askBool(prompt string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	v, err := GetDefault(a.reader, prompt+" (y/n)", d, a.out)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "y"), nil
}

// Reorder moves a procedure: reorder <type> <from> <to>, 1-based positions.
func (a *App) Reorder(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: reorder <type> <from> <to>")
	}
	typeID, err := ParseID(args[0])
	if err != nil {
		return err
	}
	from, err1 := strconv.Atoi(args[1])
	to, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		return services.ErrBadMove
	}

	procs, err := a.workflow.Procedures(ctx, typeID)
	if err != nil {
		return err
	}
	if from == to {
		printProcedures(procs)
		return nil
	}

	rep, err := a.workflow.Reorder(ctx, typeID, procs, from-1, to-1)
	if err != nil {
		return err
	}
	printlnFn(rep.Message())
	for _, f := range rep.Failed {
		printlnFn(fmt.Sprintf("  ✗ %s: %v", f.Procedure.ProcedureName, f.Err))
	}
	printProcedures(rep.Procedures)
	return nil
}

func printProcedures(procs []models.Procedure) {
	for _, p := range procs {
		flags := ""
		if p.IsInitial {
			flags += " [ابتدائي]"
		}
		if p.IsFinal {
			flags += " [نهائي]"
		}
		printlnFn(fmt.Sprintf("  %d. %s (id %d)%s", p.ProcedureOrder, p.ProcedureName, p.ID, flags))
	}
	for _, w := range services.ExclusivityWarnings(procs) {
		printlnFn("⚠", w)
	}
}
