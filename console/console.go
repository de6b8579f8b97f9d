// Package console is the interactive terminal front end: a login menu, then a main menu
// with menu, order, table, billing and user management.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"restaurant-pos/logger"
	"restaurant-pos/models"
	"restaurant-pos/services"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// errQuit unwinds every menu when the user exits or input runs out
var errQuit = errors.New("quit")

// line is one read from input; err is set once input ends
type line struct {
	text string
	err  error
}

type App struct {
	svc   *services.Services
	log   *logger.Logger
	in    io.Reader
	lines <-chan line
	out   io.Writer
	sess  services.Session
	ctx   context.Context
}

func New(svc *services.Services, log *logger.Logger, in io.Reader, out io.Writer) *App {
	return &App{svc: svc, log: log, in: in, out: out}
}

// scan feeds input lines to the menus so a blocked read never holds up cancellation
func scan(ctx context.Context, in io.Reader) <-chan line {
	ch := make(chan line)
	go func() {
		defer close(ch)
		s := bufio.NewScanner(in)
		for s.Scan() {
			select {
			case ch <- line{text: s.Text()}:
			case <-ctx.Done():
				return
			}
		}
		err := s.Err()
		if err == nil {
			err = io.EOF
		}
		select {
		case ch <- line{err: err}:
		case <-ctx.Done():
		}
	}()
	return ch
}

// Run drives the menus until the user exits, input ends or ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	a.lines = scan(ctx, a.in)
	a.println("Welcome to Restaurant Management System!")
	for {
		if ctx.Err() != nil {
			a.println()
			a.println("Goodbye!")
			return nil
		}
		var err error
		if a.sess.Authenticated() {
			err = a.mainMenu()
		} else {
			err = a.loginMenu()
		}
		if errors.Is(err, errQuit) {
			a.println("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints a service error the way the menus show failures
func (a *App) report(err error) {
	a.println("Error:", err)
}

func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	if a.ctx.Err() != nil {
		a.println()
		return "", errQuit
	}
	select {
	case <-a.ctx.Done():
		a.println()
		return "", errQuit
	case l, ok := <-a.lines:
		if !ok || errors.Is(l.err, io.EOF) {
			a.println()
			return "", errQuit
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// readInt re-prompts until a whole number is entered
func (a *App) readInt(prompt string) (int, error) {
	for {
		line, err := a.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		a.println("Please enter a valid number.")
	}
}

func (a *App) readID(prompt string) (uint, error) {
	for {
		n, err := a.readInt(prompt)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return uint(n), nil
		}
		a.println("Please enter a positive ID.")
	}
}

func (a *App) readDecimal(prompt string) (decimal.Decimal, error) {
	for {
		line, err := a.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(line)
		if err == nil {
			return d, nil
		}
		a.println("Please enter a valid amount.")
	}
}

func (a *App) confirm(prompt string) (bool, error) {
	line, err := a.readLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(line), "y"), nil
}

// choose shows a numbered menu and returns a valid choice
func (a *App) choose(title string, options ...string) (int, error) {
	a.println()
	a.println("=== " + title + " ===")
	for i, o := range options {
		a.printf("%d. %s\n", i+1, o)
	}
	for {
		n, err := a.readInt("Choose an option: ")
		if err != nil {
			return 0, err
		}
		if n >= 1 && n <= len(options) {
			return n, nil
		}
		a.println("Invalid option!")
	}
}

func (a *App) loginMenu() error {
	choice, err := a.choose("LOGIN", "Login", "Register User", "Exit")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.login()
	case 2:
		return a.registerUser()
	default:
		return errQuit
	}
}

func (a *App) login() error {
	username, err := a.readLine("Username: ")
	if err != nil {
		return err
	}
	password, err := a.readLine("Password: ")
	if err != nil {
		return err
	}
	user, err := a.svc.Users.Authenticate(a.ctx, username, password)
	if errors.Is(err, services.ErrInvalidInput) {
		a.println("Invalid credentials!")
		return nil
	}
	if err != nil {
		a.report(err)
		return nil
	}
	a.sess = services.NewSession(user)
	a.ctx = services.WithRequestID(a.ctx, uuid.NewString())
	a.log.Info("console_login", services.RequestIDFrom(a.ctx), user.Username+" logged in")
	a.println("Login successful! Welcome, " + user.Username)
	return nil
}

func (a *App) registerUser() error {
	username, err := a.readLine("Username: ")
	if err != nil {
		return err
	}
	password, err := a.readLine("Password: ")
	if err != nil {
		return err
	}
	role, err := a.readLine("Role (ADMIN/STAFF): ")
	if err != nil {
		return err
	}
	_, err = a.svc.Users.Register(a.ctx, a.sess, services.RegisterInput{
		Username: username,
		Password: password,
		Role:     models.UserRole(strings.ToUpper(role)),
	})
	if err != nil {
		a.report(err)
		return nil
	}
	a.println("User registered successfully!")
	return nil
}

func (a *App) mainMenu() error {
	a.println()
	a.printf("User: %s (%s)\n", a.sess.Username, a.sess.Role)
	choice, err := a.choose("RESTAURANT MANAGEMENT SYSTEM",
		"Menu Management", "Order Management", "Table Management", "Billing System", "User Management", "Logout")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.menuManagement()
	case 2:
		return a.orderManagement()
	case 3:
		return a.tableManagement()
	case 4:
		return a.billingSystem()
	case 5:
		if !a.sess.IsAdmin() {
			a.println("Access denied! Admin privileges required.")
			return nil
		}
		return a.userManagement()
	default:
		a.sess = services.Session{}
		a.println("Logged out successfully!")
		return nil
	}
}

func (a *App) printMenuItem(item models.MenuItem) {
	state := "Unavailable"
	if item.Available {
		state = "Available"
	}
	a.printf("ID: %d | %s | %s | $%s | %s\n", item.ID, item.Name, item.Category, item.Price.StringFixed(2), state)
	if item.Description != "" {
		a.println("   Description: " + item.Description)
	}
}

func (a *App) printTable(t models.Table) {
	a.printf("ID: %d | Table %d (Capacity: %d) - %s\n", t.ID, t.Number, t.Capacity, t.Status)
}

func (a *App) printOrderLine(o models.Order) {
	table := strconv.FormatUint(uint64(o.TableID), 10)
	if o.Table != nil {
		table = strconv.Itoa(o.Table.Number)
	}
	a.printf("Order ID: %d | Table: %s | Customer: %s | Status: %s | Total: $%s | Time: %s (%s)\n",
		o.ID, table, o.CustomerName, o.Status, o.TotalAmount.StringFixed(2),
		o.OrderTime.Format("2006-01-02 15:04"), humanize.Time(o.OrderTime))
}
