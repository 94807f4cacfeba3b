package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"instaclone/internal/client"
	"instaclone/internal/config"
	"instaclone/internal/screens"
)

const usage = `commands:
  login <user> <password>     register <user> <password>
  feed                        profile
  refresh                     like <n>
  open <n>                    compose
  capture <image file>        submit <caption>
  logout                      back
  quit`

func main() {
	configPath := flag.String("config", "instaclone.ini", "client config file")
	flag.Parse()

	cfg, err := config.LoadClientConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sessions := client.NewFileSessionStore(cfg.SessionFile)
	remote := client.New(*cfg)
	remote.OnRefresh = func(s *client.Session) {
		if err := sessions.Save(s); err != nil {
			log.Printf("Issue with saving session: %v", err)
		}
	}

	loop := screens.NewLoop()
	term := &terminal{out: os.Stdout, now: time.Now}
	env := &screens.Env{
		Ctx:      ctx,
		Remote:   remote,
		Sessions: sessions,
		Notifier: term,
		Exec:     screens.GoExecutor(),
		UI:       loop,
		Logger:   log.New(os.Stderr, "", log.LstdFlags),
	}

	stack := screens.NewStack(func(d screens.Destination) (screens.Screen, error) {
		switch d.Route {
		case screens.RouteLogin:
			return screens.NewLoginScreen(env), nil
		case screens.RouteFeed:
			return screens.NewFeedScreen(env, d.Session, term), nil
		case screens.RouteProfile:
			return screens.NewProfileScreen(env, d.Session, term), nil
		case screens.RouteCompose:
			return screens.NewComposeScreen(env, d.Session, term, term, cfg.PhotoDir), nil
		case screens.RouteDetail:
			return screens.NewDetailScreen(term, d.Payload)
		}
		return nil, fmt.Errorf("unknown route %q", d.Route)
	})
	stack.OnError = func(_ screens.Destination, err error) { log.Printf("Issue with navigation: %v", err) }
	env.Nav = stack

	app := &repl{stack: stack, term: term, loop: loop}
	stack.OnChange = app.follow
	loop.Dispatch(func() {
		fmt.Println(usage)
		screens.Launch(env)
	})

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			loop.Dispatch(func() { app.handle(line) })
		}
		loop.Quit()
	}()

	loop.Run(ctx)
}

type repl struct {
	stack *screens.Stack
	term  *terminal
	loop  *screens.Loop

	session *client.Session
}

// follow keeps the session of the latest signed-in screen. The detail screen keeps the previous one.
func (r *repl) follow(top screens.Screen) {
	type sessionScreen interface {
		Session() *client.Session
	}
	switch screen := top.(type) {
	case sessionScreen:
		r.session = screen.Session()
	case *screens.LoginScreen:
		r.session = nil
	}
	fmt.Fprintf(r.term.out, "== %s ==\n", top.Route())
}

func (r *repl) handle(line string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	top := r.stack.Top()

	switch cmd {
	case "":
		return
	case "quit", "exit":
		r.loop.Quit()
	case "help":
		fmt.Println(usage)
	case "back":
		if !r.stack.Back() {
			r.loop.Quit()
		}
	case "login", "register":
		screen, ok := top.(*screens.LoginScreen)
		if !ok {
			fmt.Println("already signed in")
			return
		}
		user, password, _ := strings.Cut(arg, " ")
		if cmd == "login" {
			screen.Login(user, password)
		} else {
			screen.Register(user, password)
		}
	case "feed", "profile", "compose":
		if r.session == nil {
			fmt.Println("sign in first")
			return
		}
		r.stack.Replace(screens.Destination{Route: screens.Route(cmd), Session: r.session})
	case "refresh":
		switch screen := top.(type) {
		case *screens.FeedScreen:
			screen.Refresh()
		case *screens.ProfileScreen:
			screen.Refresh()
		}
	case "like", "open":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Println("usage:", cmd, "<n>")
			return
		}
		r.onPost(top, cmd, n)
	case "capture":
		screen, ok := top.(*screens.ComposeScreen)
		if !ok {
			fmt.Println("open compose first")
			return
		}
		if arg == "" {
			if err := screen.LaunchCapture(); err != nil {
				log.Printf("Issue with camera: %v", err)
			}
			return
		}
		if screen.PendingPath() == "" {
			if err := screen.LaunchCapture(); err != nil {
				return
			}
		}
		code, err := r.term.develop(arg)
		if err != nil {
			log.Printf("Issue with camera: %v", err)
		}
		screen.OnCaptureResult(code, err == nil)
	case "submit":
		if screen, ok := top.(*screens.ComposeScreen); ok {
			screen.Submit(arg)
		}
	case "logout":
		if screen, ok := top.(*screens.ProfileScreen); ok {
			screen.Logout()
			return
		}
		fmt.Println("open profile first")
	default:
		fmt.Println(usage)
	}
}

func (r *repl) onPost(top screens.Screen, cmd string, n int) {
	type postScreen interface {
		Toggle(i int) bool
		Open(i int) bool
	}
	screen, ok := top.(postScreen)
	if !ok {
		fmt.Println("no posts on this screen")
		return
	}

	var done bool
	if cmd == "like" {
		done = screen.Toggle(n)
	} else {
		done = screen.Open(n)
	}
	if !done {
		fmt.Println("no post", n)
	}
}
