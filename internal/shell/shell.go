// Package shell implements the interactive CardMaster console.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/report"
	"github.com/atinyakov/cardmaster/internal/service"
)

const maxLoginAttempts = 3

// Backend defines the application operations the shell drives.
type Backend interface {
	Login(ctx context.Context, username, password string) (models.User, error)
	FindUser(username string) (models.User, bool)
	ListTransactions(actor models.User, q service.TransactionQuery) service.TransactionPage
	Transactions() []models.Transaction
	AddTransaction(ctx context.Context, actor models.User, tx models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, actor models.User, id string) error
	SearchCustomers(q string) []models.Customer
	SuggestCustomers(q string) []models.Customer
	TasksFor(actor models.User) []models.Task
	CreateTask(ctx context.Context, actor models.User, t models.Task) (models.Task, error)
	ChangeTaskStatus(ctx context.Context, actor models.User, id string, status models.TaskStatus) (models.Task, error)
	AddTaskComment(ctx context.Context, actor models.User, id, text string) (models.TaskComment, error)
	NotificationsFor(username string) []models.Notification
	UnreadCount(username string) int
	MarkNotificationRead(ctx context.Context, actor models.User, id string) (models.Notification, error)
	SiteSettings() service.SiteSettings
}

// ErrLoginFailed is returned by Run when every login attempt failed.
var ErrLoginFailed = errors.New("login failed")

// Shell is a line-oriented console over a Backend.
type Shell struct {
	backend Backend
	scanner *bufio.Scanner
	out     io.Writer
	user    models.User
}

// New returns a Shell reading commands from in and writing to out.
func New(backend Backend, in io.Reader, out io.Writer) *Shell {
	return &Shell{backend: backend, scanner: bufio.NewScanner(in), out: out}
}

// Run logs the user in and processes commands until "exit" or end of input.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "%s\n", s.backend.SiteSettings().SiteName)
	if err := s.login(ctx); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Xin chào, %s! Gõ 'help' để xem lệnh.\n", s.user.FullName)

	for {
		fmt.Fprint(s.out, "cardmaster> ")
		if !s.scanner.Scan() {
			return s.scanner.Err()
		}
		args := strings.Fields(s.scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		s.dispatch(ctx, args)
	}
}

func (s *Shell) login(ctx context.Context) error {
	for range maxLoginAttempts {
		username, ok := s.prompt("Username: ")
		if !ok {
			return ErrLoginFailed
		}
		password, ok := s.prompt("Password: ")
		if !ok {
			return ErrLoginFailed
		}
		u, err := s.backend.Login(ctx, username, password)
		if err == nil {
			s.user = u
			return nil
		}
		fmt.Fprintln(s.out, "Sai tài khoản hoặc mật khẩu!")
	}
	return ErrLoginFailed
}

func (s *Shell) dispatch(ctx context.Context, args []string) {
	// The account may have been changed since login.
	if u, ok := s.backend.FindUser(s.user.Username); ok {
		s.user = u
	}

	switch args[0] {
	case "help":
		s.help()
	case "whoami":
		fmt.Fprintf(s.out, "%s (%s) - %s\n", s.user.FullName, s.user.Username, s.user.Role)
	case "tx":
		s.transactions(ctx, args[1:])
	case "customers":
		s.printCustomers(s.backend.SearchCustomers(strings.Join(args[1:], " ")))
	case "tasks":
		s.printTasks(s.backend.TasksFor(s.user))
	case "task":
		s.task(ctx, args[1:])
	case "comment":
		if len(args) < 3 {
			fmt.Fprintln(s.out, "Usage: comment <task-id> <text>")
			return
		}
		if _, err := s.backend.AddTaskComment(ctx, s.user, args[1], strings.Join(args[2:], " ")); err != nil {
			s.fail(err)
			return
		}
		fmt.Fprintln(s.out, "Comment added")
	case "notif":
		s.printNotifications()
	case "read":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: read <notification-id>")
			return
		}
		n, err := s.backend.MarkNotificationRead(ctx, s.user, args[1])
		if err != nil {
			s.fail(err)
			return
		}
		if n.TaskID != "" {
			fmt.Fprintf(s.out, "Task: %s\n", n.TaskID)
		}
	case "dashboard":
		month := report.AllMonths
		if len(args) > 1 {
			month = args[1]
		}
		s.printDashboard(report.BuildDashboard(s.backend.Transactions(), s.user, month))
	case "export":
		s.export(args[1:])
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, `Available commands:
  whoami
  tx list [query] | tx add | tx delete <id>
  customers [query]
  tasks | task add | task status <id> <TODO|IN_PROGRESS|DONE>
  comment <task-id> <text>
  notif | read <id>
  dashboard [MM/YYYY|all]
  export <from> <to> [file]
  exit`)
}

func (s *Shell) transactions(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: tx list [query] | tx add | tx delete <id>")
		return
	}
	switch args[0] {
	case "list":
		page := s.backend.ListTransactions(s.user, service.TransactionQuery{Search: strings.Join(args[1:], " ")})
		s.printTransactions(page)
	case "add":
		tx, ok := s.promptTransaction()
		if !ok {
			return
		}
		created, err := s.backend.AddTransaction(ctx, s.user, tx)
		if err != nil {
			s.fail(err)
			return
		}
		fmt.Fprintf(s.out, "Transaction %s added, profit %d\n", created.ID, created.Profit)
	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: tx delete <id>")
			return
		}
		if err := s.backend.DeleteTransaction(ctx, s.user, args[1]); err != nil {
			s.fail(err)
			return
		}
		fmt.Fprintln(s.out, "Transaction deleted")
	default:
		fmt.Fprintln(s.out, "Usage: tx list [query] | tx add | tx delete <id>")
	}
}

func (s *Shell) task(ctx context.Context, args []string) {
	switch {
	case len(args) >= 1 && args[0] == "add":
		t, ok := s.promptTask()
		if !ok {
			return
		}
		created, err := s.backend.CreateTask(ctx, s.user, t)
		if err != nil {
			s.fail(err)
			return
		}
		fmt.Fprintf(s.out, "Task %s created\n", created.ID)
	case len(args) == 3 && args[0] == "status":
		if _, err := s.backend.ChangeTaskStatus(ctx, s.user, args[1], models.TaskStatus(strings.ToUpper(args[2]))); err != nil {
			s.fail(err)
			return
		}
		fmt.Fprintln(s.out, "Task updated")
	default:
		fmt.Fprintln(s.out, "Usage: task add | task status <id> <status>")
	}
}

func (s *Shell) export(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: export <from> <to> [file]")
		return
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, s.backend.Transactions(), args[0], args[1]); err != nil {
		s.fail(err)
		return
	}
	path := report.FileName(args[0], args[1])
	if len(args) > 2 {
		path = args[2]
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		s.fail(err)
		return
	}
	fmt.Fprintf(s.out, "Exported to %s\n", path)
}

func (s *Shell) printTransactions(page service.TransactionPage) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNgày\tSale\tKhách hàng\tNgân hàng\tSố tiền\tLợi nhuận\tTrạng thái")
	for _, t := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			t.ID, t.Timestamp, t.Sale, t.CustomerName, t.Bank, t.Amount, t.Profit, t.Status.Label())
	}
	_ = tw.Flush()
	fmt.Fprintf(s.out, "%d transactions, page %d/%d\n", page.Total, page.Page, max(page.TotalPages, 1))
}

func (s *Shell) printCustomers(customers []models.Customer) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTên\tNgân hàng\tLoại thẻ\tSố cuối\tGiữ thẻ")
	for _, c := range customers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n", c.ID, c.Name, c.Bank, c.CardType, c.LastFourDigits, c.IsHoldingCard)
	}
	_ = tw.Flush()
}

func (s *Shell) printTasks(tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(s.out, "No tasks")
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(s.out, "[%s] %s %s -> %s (%d comments)\n",
			t.Status, t.ID, t.Title, strings.Join(t.AssignedToNames, ", "), len(t.Comments))
	}
}

func (s *Shell) printNotifications() {
	notes := s.backend.NotificationsFor(s.user.Username)
	fmt.Fprintf(s.out, "%d unread\n", s.backend.UnreadCount(s.user.Username))
	for _, n := range notes {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		fmt.Fprintf(s.out, "%s %s %s %s\n", mark, n.ID, n.Timestamp, n.Message)
	}
}

func (s *Shell) printDashboard(d report.Dashboard) {
	fmt.Fprintf(s.out, "Tháng: %s (có: %s)\n", d.Month, strings.Join(d.AvailableMonths, ", "))
	fmt.Fprintf(s.out, "Tổng tiền: %d  Lợi nhuận: %d  Giao dịch: %d  Chưa thanh toán: %d\n",
		d.Stats.TotalAmount, d.Stats.TotalProfit, d.Stats.Count, d.Stats.UnpaidCount)
	for _, p := range d.Chart {
		fmt.Fprintf(s.out, "  %s  %d  %d\n", p.Label, p.Amount, p.Profit)
	}
	for _, sale := range d.Sales {
		fmt.Fprintf(s.out, "  %s: %d giao dịch, lợi nhuận %d\n", sale.Sale, sale.Count, sale.TotalProfit)
	}
}

func (s *Shell) fail(err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		fmt.Fprintln(s.out, "Bạn không có quyền thực hiện thao tác này.")
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(s.out, "Không tìm thấy.")
	case errors.Is(err, report.ErrRangeRequired):
		fmt.Fprintln(s.out, "Vui lòng chọn khoảng thời gian!")
	case errors.Is(err, report.ErrNoTransactions):
		fmt.Fprintln(s.out, "Không có giao dịch nào trong khoảng thời gian này!")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}
