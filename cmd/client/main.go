// Package main implements the BillboardWatch command-line client. It
// keeps the session in a local key-value file and talks to the API
// server over HTTP.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/BillboardWatch/internal/client/api"
	"github.com/atinyakov/BillboardWatch/internal/client/session"
	"github.com/atinyakov/BillboardWatch/internal/client/storage"
	"github.com/atinyakov/BillboardWatch/internal/logger"
	"github.com/atinyakov/BillboardWatch/internal/models"
)

var (
	version   string
	buildDate string
)

// app bundles the API modules the shell commands dispatch to.
type app struct {
	session       *session.Manager
	auth          *api.AuthAPI
	reports       *api.ReportsAPI
	gamification  *api.GamificationAPI
	mapData       *api.MapAPI
	notifications *api.NotificationsAPI
	reader        *bufio.Reader
}

func (a *app) prompt(label string) string {
	fmt.Print(label + ": ")
	line, _ := a.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func (a *app) login(ctx context.Context) {
	email := a.prompt("email")
	password := a.prompt("password")
	result, err := a.session.Login(ctx, api.LoginCredentials{Email: email, Password: password})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Logged in as %s\n", result.User.Email)
}

func (a *app) signup(ctx context.Context) {
	data := api.SignupData{
		Name:            a.prompt("name"),
		Email:           a.prompt("email"),
		Password:        a.prompt("password"),
		ConfirmPassword: a.prompt("confirm password"),
	}
	result, err := a.auth.Signup(ctx, data)
	if err != nil {
		fmt.Println(err)
		return
	}
	if result.OTPSent {
		fmt.Println("Account created, check your inbox for the verification code")
	} else {
		fmt.Println("Account created")
	}
}

func (a *app) verify(ctx context.Context) {
	data := api.OTPVerification{
		Email: a.prompt("email"),
		OTP:   a.prompt("code"),
		Type:  "signup",
	}
	result, err := a.session.VerifyOTP(ctx, data)
	if err != nil {
		fmt.Println(err)
		return
	}
	if result.Token != "" {
		fmt.Println("Email verified, you are now logged in")
	} else {
		fmt.Println(result.Message)
	}
}

func (a *app) forgot(ctx context.Context) {
	if _, err := a.auth.ForgotPassword(ctx, a.prompt("email")); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Reset code sent")
}

func (a *app) reset(ctx context.Context) {
	data := api.ResetPasswordData{
		Email:           a.prompt("email"),
		OTP:             a.prompt("code"),
		NewPassword:     a.prompt("new password"),
		ConfirmPassword: a.prompt("confirm password"),
	}
	result, err := a.auth.ResetPassword(ctx, data)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result.Message)
}

func (a *app) whoami(ctx context.Context) {
	user, err := a.session.Refresh(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}
	printJSON(user)
}

func (a *app) submitReport(ctx context.Context) {
	lat, errLat := strconv.ParseFloat(a.prompt("latitude"), 64)
	lng, errLng := strconv.ParseFloat(a.prompt("longitude"), 64)
	if errLat != nil || errLng != nil {
		fmt.Println("latitude and longitude must be numbers")
		return
	}
	data := api.SubmitReportData{
		ViolationType: models.ViolationType(a.prompt("violation type")),
		Description:   a.prompt("description"),
		Latitude:      lat,
		Longitude:     lng,
		Address:       a.prompt("address"),
	}
	report, err := a.reports.Submit(ctx, data)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Report %s submitted\n", report.ID)
}

func (a *app) upload(ctx context.Context, path string) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer file.Close()

	url, err := a.reports.UploadImage(ctx, filepath.Base(path), file, func(sent, total int64) {
		fmt.Printf("\ruploaded %d/%d bytes", sent, total)
	})
	fmt.Println()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Image URL:", url)
}

// repl runs the interactive shell loop.
func (a *app) repl(ctx context.Context) {
	if user, _, ok := a.session.Restore(); ok {
		fmt.Printf("Welcome back, %s\n", user.Name)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("billboard> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, signup, verify, resend, forgot, reset,")
			fmt.Println("  whoami, report, myreports, get <id>, upload <file>, notifications,")
			fmt.Println("  read <id>, leaderboard, stats, map, logout, exit")
		case "login":
			a.login(ctx)
		case "signup":
			a.signup(ctx)
		case "verify":
			a.verify(ctx)
		case "resend":
			if _, err := a.auth.ResendOTP(ctx, a.prompt("email")); err != nil {
				fmt.Println(err)
			} else {
				fmt.Println("Verification code sent")
			}
		case "forgot":
			a.forgot(ctx)
		case "reset":
			a.reset(ctx)
		case "whoami":
			a.whoami(ctx)
		case "report":
			a.submitReport(ctx)
		case "myreports":
			reports, err := a.reports.ListMine(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			printJSON(reports)
		case "get":
			if len(args) < 2 {
				fmt.Println("Usage: get <id>")
				continue
			}
			report, err := a.reports.Get(ctx, args[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			printJSON(report)
		case "upload":
			if len(args) < 2 {
				fmt.Println("Usage: upload <file>")
				continue
			}
			a.upload(ctx, args[1])
		case "notifications":
			notifications, err := a.notifications.List(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			printJSON(notifications)
		case "read":
			if len(args) < 2 {
				fmt.Println("Usage: read <id>")
				continue
			}
			if err := a.notifications.MarkRead(ctx, args[1]); err != nil {
				fmt.Println(err)
			} else {
				fmt.Println("Marked as read")
			}
		case "leaderboard":
			leaders, err := a.gamification.Leaderboard(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			printJSON(leaders)
		case "stats":
			stats, err := a.gamification.Stats(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			printJSON(stats)
		case "map":
			violations, err := a.mapData.Violations(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			printJSON(violations)
		case "logout":
			if err := a.session.Logout(ctx); err != nil {
				fmt.Println(err)
			} else {
				fmt.Println("Logged out")
			}
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// main parses command-line flags and starts the interactive shell.
func main() {
	var (
		baseURL   string
		storePath string
		timeoutMS int
		showVer   bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080/api", "API base URL")
	flag.StringVar(&storePath, "store", "billboard.json", "path to the local session store")
	flag.IntVar(&timeoutMS, "timeout", 10000, "request timeout in milliseconds")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("BillboardWatch Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	zl := logger.New()

	backend, err := storage.NewFileBackend(storePath)
	if err != nil {
		log.Fatalf("cannot open session store: %v", err)
	}
	store := storage.New(backend, zl.Log)

	client := api.New(api.Config{
		BaseURL: baseURL,
		Timeout: time.Duration(timeoutMS) * time.Millisecond,
	}, store, zl.Log)

	auth := api.NewAuthAPI(client)
	a := &app{
		session:       session.NewManager(auth, store, zl.Log),
		auth:          auth,
		reports:       api.NewReportsAPI(client),
		gamification:  api.NewGamificationAPI(client),
		mapData:       api.NewMapAPI(client),
		notifications: api.NewNotificationsAPI(client),
		reader:        bufio.NewReader(os.Stdin),
	}

	a.repl(context.Background())
}
