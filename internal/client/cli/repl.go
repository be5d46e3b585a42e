package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	loginDue() bool

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Password(ctx context.Context) error
	Profile(ctx context.Context) error

	Open(ctx context.Context, args []string) error
	Page(ctx context.Context, cmd string, args []string) error
	Sort(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Unfilter(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Advanced(ctx context.Context, args []string) error
	ClearFilters(ctx context.Context) error
	Columns(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, args []string) error

	NewLetter(ctx context.Context) error
	Types(ctx context.Context, args []string) error
	Procedures(ctx context.Context, args []string) error
	Reorder(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "الأوامر: login, exit"
	helpSignedIn  = `الأوامر:
  open [table [listing]]   فتح جدول (letters, people, vehicles, permits, cards, settings)
  next | prev | page <n>   التنقل بين الصفحات
  more                     تحميل المزيد (تمرير لا نهائي)
  refresh                  إعادة التحميل
  sort <col>               ترتيب (تصاعدي ← تنازلي)
  filter <col>             تصفية حسب القيم
  unfilter <col>           إزالة تصفية عمود
  search [text]            بحث عام
  adv [clear|<col> <op> v] تصفية متقدمة (contains, equals, before, after, between, in, is_null...)
  clear                    مسح كل التصفيات
  columns [...]            إظهار/إخفاء الأعمدة
  edit <id> <col>          تعديل خلية
  show <id>                عرض سجل
  add | delete <id>        إضافة / حذف سجل
  newletter                خطاب وارد جديد
  types [...]              أنواع الخطابات
  procs <type> [...]       إجراءات نوع
  reorder <type> <a> <b>   نقل إجراء
  whoami | profile | passwd | logout | exit`
)

// runREPL reads commands from scanner until EOF or exit and dispatches
// them to a. Handler errors are printed and the loop goes on. When the
// session has ended, the next command is preceded by a login prompt.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sd %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("مع السلامة!")
			return
		}

		if a.loginDue() {
			report(a.Login(ctx))
			if cmd == "login" {
				continue
			}
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "login":
				report(a.Login(ctx))
			case "help":
				printlnFn(helpSignedOut)
			default:
				printlnFn("يرجى تسجيل الدخول أولاً")
			}
			continue
		}

		var err error
		switch cmd {
		case "help":
			printlnFn(helpSignedIn)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "passwd":
			err = a.Password(ctx)
		case "profile":
			err = a.Profile(ctx)

		case "open", "o":
			err = a.Open(ctx, args)
		case "next", "n", "prev", "p", "page", "more", "m", "refresh":
			err = a.Page(ctx, pageCmd(cmd), args)
		case "sort":
			err = a.Sort(ctx, args)
		case "filter":
			err = a.Filter(ctx, args)
		case "unfilter":
			err = a.Unfilter(ctx, args)
		case "search":
			err = a.Search(ctx, args)
		case "adv":
			err = a.Advanced(ctx, args)
		case "clear":
			err = a.ClearFilters(ctx)
		case "columns", "cols":
			err = a.Columns(ctx, args)
		case "edit":
			err = a.Edit(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "add":
			err = a.Add(ctx)
		case "delete", "del":
			err = a.Delete(ctx, args)

		case "newletter":
			err = a.NewLetter(ctx)
		case "types":
			err = a.Types(ctx, args)
		case "procs":
			err = a.Procedures(ctx, args)
		case "reorder":
			err = a.Reorder(ctx, args)

		default:
			printlnFn("أمر غير معروف:", cmd)
		}
		report(err)
	}
}

func pageCmd(cmd string) string {
	switch cmd {
	case "n":
		return "next"
	case "p":
		return "prev"
	case "m":
		return "more"
	}
	return cmd
}
