// Command keyagent is a small demo CLI around pkg/keyprotect: it reads a
// key expression from a file and, as -action selects, classifies it or
// protects or unprotects it under a passphrase read from the terminal
// without echo.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/cryptagent/keyprotect-go/pkg/keyprotect"
)

func main() {
	action := flag.String("action", "classify", "one of: classify, protect, unprotect")
	keyPath := flag.String("key", "", "path to the key expression file")
	outPath := flag.String("out", "", "path to write the result (default: stdout)")
	flag.Parse()

	if *keyPath == "" {
		log.Fatal("missing -key")
	}

	expr, err := os.ReadFile(*keyPath) // #nosec G304 -- operator-supplied CLI path
	if err != nil {
		log.Fatalf("read key file: %v", err)
	}

	provider := keyprotect.Config{}.Provider()

	var result []byte
	switch *action {
	case "classify":
		fmt.Println(keyprotect.Classify(expr))
		return

	case "protect":
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			log.Fatalf("read passphrase: %v", err)
		}
		result, err = keyprotect.Protect(provider, expr, passphrase)
		if err != nil {
			log.Fatalf("protect: %v", err)
		}

	case "unprotect":
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			log.Fatalf("read passphrase: %v", err)
		}
		result, err = keyprotect.Unprotect(provider, expr, passphrase)
		if err != nil {
			kind, _ := keyprotect.KindOf(err)
			log.Fatalf("unprotect: %s", kind)
		}

	default:
		log.Fatalf("unknown action %q", *action)
	}

	if *outPath == "" {
		os.Stdout.Write(result) // #nosec G104 -- best effort demo output
		return
	}
	if err := os.WriteFile(*outPath, result, 0o600); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Scanln(&line); err != nil {
			return "", err
		}
		return line, nil
	}
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(passphrase), nil
}
