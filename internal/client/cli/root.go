package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.api.LoggedIn() {
		return "(authenticated)"
	}
	return ""
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to the account service CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("acli %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.api.LoggedIn() {
				fmt.Println("Available commands: whoami, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			if err := a.Register(ctx); err != nil {
				log.Printf("Registration unsuccessfull: %s", err.Error())
			}
		case "login":
			if err := a.Login(ctx); err != nil {
				log.Printf("Login unsuccessfull: %s", err.Error())
			}
		case "whoami":
			if err := a.WhoAmI(ctx); err != nil {
				log.Printf("Error: %s", err.Error())
			}
		case "logout":
			if err := a.Logout(ctx); err != nil {
				log.Printf("Logout unsuccessfull: %s", err.Error())
			}
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", parts[0])
		}
	}

}
