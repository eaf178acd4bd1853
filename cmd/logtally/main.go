package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/logtally/internal/analyzer"
	"github.com/logtally/internal/config"
	"github.com/logtally/internal/output"
)

const version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	conf, err := config.LoadTally()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("logtally", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&conf.InputPath, "input", conf.InputPath, "access log to scan (env LOGTALLY_INPUT_PATH)")
	fs.StringVar(&conf.ReportPath, "output", conf.ReportPath, "report file to write, replaced if present (env LOGTALLY_REPORT_PATH)")
	fs.StringVar(&conf.Format, "format", conf.Format, "report format: text, json, csv (env LOGTALLY_FORMAT)")
	fs.StringVar(&conf.LogLevel, "log-level", conf.LogLevel, "diagnostic log level (env LOGTALLY_LOG_LEVEL)")
	showVersion := fs.Bool("version", false, "show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: logtally [options]\n\n")
		fmt.Fprintf(stderr, "Counts requests per IP, requests per GET path and 404 responses in an access log.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  logtally\n")
		fmt.Fprintf(stderr, "  logtally -input /var/log/nginx/access.log.1 -output yesterday.txt\n")
		fmt.Fprintf(stderr, "  logtally -format json -output report.json\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "logtally %s\n", version)
		return 0
	}

	log := config.NewLogger(stderr, conf.LogLevel)

	if err := conf.Validate(); err != nil {
		log.WithError(err).Error("invalid configuration")
		return 1
	}
	format, err := conf.ReportFormat()
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return 1
	}

	log.WithField("input", conf.InputPath).Debug("analyzing access log")
	report, err := analyzer.Analyze(conf.InputPath)
	if err != nil {
		log.WithFields(logrus.Fields{"op": "read", "path": conf.InputPath}).WithError(err).Error("cannot read access log")
		return 1
	}

	if err := output.Write(report, conf.ReportPath, format); err != nil {
		log.WithFields(logrus.Fields{"op": "write", "path": conf.ReportPath}).WithError(err).Error("cannot write report")
		return 1
	}

	log.WithFields(logrus.Fields{
		"lines":     report.Lines,
		"ips":       report.IPs.Len(),
		"pages":     report.Pages.Len(),
		"not_found": report.NotFound,
		"report":    conf.ReportPath,
	}).Info("report written")

	return 0
}
