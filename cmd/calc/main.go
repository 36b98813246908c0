package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

func main() {
	log.SetFlags(0)
	var (
		inname, cfgname, prompt string
		with                    [][2]string
		echo                    bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=expr", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin)")
	flag.StringVar(&cfgname, "config", "", "YAML configuration file")
	flag.Func("given", "name=expr variable definition (any number of times)", addwith)
	flag.StringVar(&prompt, "p", "", "prompt printed before each line (overrides config)")
	flag.BoolVar(&echo, "echo", false, "print postfix programs before results")
	flag.Parse()

	cfg := &config{}
	if cfgname != "" {
		c, err := loadConfig(cfgname)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "p" {
			cfg.Prompt = prompt
		}
	})

	env, err := cfg.env()
	if err != nil {
		log.Fatal(err)
	}
	for _, d := range with {
		if err := env.AssignLine(d[0], d[1]); err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
	}

	in, err := infile(inname)
	if err != nil {
		log.Fatal(err)
	}
	s := session{
		env:    env,
		out:    os.Stdout,
		prompt: cfg.Prompt,
		echo:   echo,
	}
	if err := s.run(in); err != nil {
		log.Fatal(err)
	}
}

func infile(inname string) (io.Reader, error) {
	if inname == "" || inname == "-" {
		return bufio.NewReader(os.Stdin), nil
	}
	f, err := os.Open(inname)
	if err != nil {
		return nil, err
	}
	return bufio.NewReader(f), nil
}
