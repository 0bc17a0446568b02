package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/adammck/tadmin/pkg/admin"
	"github.com/adammck/tadmin/pkg/api"
	"github.com/adammck/tadmin/pkg/master/inmem"
	"go.uber.org/zap"
)

// Demo driver for the admin client, wired against an in-process
// master. Useful for poking at the state machine without a cluster.
func main() {
	w := flag.CommandLine.Output()

	flag.Usage = func() {
		fmt.Fprintf(w, "Usage: %s [-servers=n] <action> [<args>]\n", os.Args[0])
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "Action and args must be one of:\n")
		fmt.Fprintf(w, "  - create <table> <family> [numRegions]\n")
		fmt.Fprintf(w, "  - tables [pattern]\n")
		fmt.Fprintf(w, "  - regions <table>\n")
		fmt.Fprintf(w, "  - lifecycle <table> <family>   (create, disable, enable, delete)\n")
		fmt.Fprintf(w, "  - balancer <on|off>\n")
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "Flags:\n")
		flag.PrintDefaults()
	}

	servers := flag.Int("servers", 3, "number of fake region servers")
	verbose := flag.Bool("v", false, "log master transitions")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(w, "Error creating logger: %v\n", err)
			os.Exit(1)
		}
	}

	sns := make([]api.ServerName, *servers)
	for i := range sns {
		sns[i] = api.ServerName{Host: fmt.Sprintf("rs%d", i), Port: 8080, StartTime: 1}
	}

	m := inmem.New(nil, logger, sns...)
	a := admin.New(m, admin.DefaultConfig(), logger)
	ctx := context.Background()

	exit := func(err error) {
		fmt.Fprintf(w, "Error: %v\n", err)
		os.Exit(1)
	}

	switch action := flag.Arg(0); action {
	case "create":
		if flag.NArg() < 3 {
			flag.Usage()
			os.Exit(1)
		}

		name, err := api.NewTableName(flag.Arg(1))
		if err != nil {
			exit(err)
		}
		desc := api.NewTableDescriptor(name, api.NewFamily(flag.Arg(2)))

		var f *admin.Future[admin.Void]
		if flag.NArg() > 3 {
			n, err := strconv.Atoi(flag.Arg(3))
			if err != nil {
				exit(err)
			}
			f = a.CreateTableWithRange(desc, api.Key("\x00\x00\x00\x00"), api.Key("\xff\xff\xff\xff"), n)
		} else {
			f = a.CreateTable(desc)
		}

		if _, err := f.Get(ctx); err != nil {
			exit(err)
		}
		fmt.Printf("created %s\n", name)

	case "tables":
		var pattern *regexp.Regexp
		if flag.NArg() > 1 {
			var err error
			pattern, err = regexp.Compile(flag.Arg(1))
			if err != nil {
				exit(err)
			}
		}

		names, err := a.ListTableNames(pattern, true).Get(ctx)
		if err != nil {
			exit(err)
		}
		for _, tn := range names {
			fmt.Println(tn)
		}

	case "regions":
		if flag.NArg() != 2 {
			flag.Usage()
			os.Exit(1)
		}

		name, err := api.NewTableName(flag.Arg(1))
		if err != nil {
			exit(err)
		}

		regions, err := a.GetTableRegions(name).Get(ctx)
		if err != nil {
			exit(err)
		}
		for _, ri := range regions {
			fmt.Printf("%s %s\n", ri.EncodedName(), ri)
		}

	case "lifecycle":
		if flag.NArg() < 3 {
			flag.Usage()
			os.Exit(1)
		}

		name, err := api.NewTableName(flag.Arg(1))
		if err != nil {
			exit(err)
		}
		desc := api.NewTableDescriptor(name, api.NewFamily(flag.Arg(2)))

		for _, step := range []struct {
			verb string
			f    func() error
		}{
			{"create", func() error { return a.CreateTable(desc).Err() }},
			{"disable", func() error { return a.DisableTable(name).Err() }},
			{"enable", func() error { return a.EnableTable(name).Err() }},
			{"disable", func() error { return a.DisableTable(name).Err() }},
			{"delete", func() error { return a.DeleteTable(name).Err() }},
		} {
			if err := step.f(); err != nil {
				exit(fmt.Errorf("%s: %w", step.verb, err))
			}
			fmt.Printf("%s %s: ok\n", step.verb, name)
		}

	case "balancer":
		if flag.NArg() != 2 || (flag.Arg(1) != "on" && flag.Arg(1) != "off") {
			flag.Usage()
			os.Exit(1)
		}

		prev, err := a.SetBalancerRunning(flag.Arg(1) == "on").Get(ctx)
		if err != nil {
			exit(err)
		}
		fmt.Printf("balancer %s (was %v)\n", flag.Arg(1), prev)

	default:
		fmt.Fprintf(w, "Error: unknown action: %s\n", action)
		os.Exit(1)
	}
}
