package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"myregistry/integrationtests/scenario"
)

const (
	envNodes     = "REGISTRY_NODES"
	defaultNodes = "http://localhost:8080,http://localhost:8081"
)

func main() {
	list := flag.Bool("list", false, "list available scenarios and exit")
	scenarioName := flag.String("scenario", "", "scenario to run (or pass as positional arg)")
	nodes := flag.String("nodes", "", "comma-separated registry node URLs (default: REGISTRY_NODES env or "+defaultNodes+")")
	poll := flag.Duration("poll", 200*time.Millisecond, "poll interval for replication checks")
	timeout := flag.Duration("timeout", 60*time.Second, "overall scenario timeout")
	flag.Parse()

	if *nodes == "" {
		*nodes = os.Getenv(envNodes)
	}
	if *nodes == "" {
		*nodes = defaultNodes
	}

	if *list {
		for _, name := range scenario.Names() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	name := *scenarioName
	if name == "" {
		args := flag.Args()
		if len(args) > 0 {
			name = args[0]
		}
	}
	if name == "" {
		fmt.Fprintln(os.Stderr, "usage: integrationtests [--list] [--scenario=NAME] [--nodes=URL,URL] [--poll=DURATION] [--timeout=DURATION] [scenario_name]")
		fmt.Fprintln(os.Stderr, "  use --list to list scenarios")
		os.Exit(2)
	}

	cfg := &scenario.Config{
		NodeURLs:     splitNodes(*nodes),
		PollInterval: *poll,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	err := scenario.Run(name, ctx, cfg)

	fmt.Println("\n=== Scenario Result ===")
	fmt.Printf("Scenario: %s\n", name)
	fmt.Printf("Nodes: %s\n", strings.Join(cfg.NodeURLs, ", "))

	if err != nil {
		fmt.Printf("Status: FAILED\n")
		fmt.Printf("Error: %v\n", err)
		var unknown *scenario.UnknownScenarioError
		if errors.As(err, &unknown) {
			fmt.Fprintf(os.Stderr, "\navailable scenarios: %s\n", strings.Join(scenario.Names(), ", "))
			fmt.Println("=====================")
			os.Exit(2)
		}
		fmt.Println("=====================")
		os.Exit(1)
	}

	fmt.Printf("Status: PASSED\n")
	fmt.Println("=====================")
	os.Exit(0)
}

func splitNodes(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, strings.TrimRight(n, "/"))
		}
	}
	return out
}
