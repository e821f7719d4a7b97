// Command render-form renders a station report from a filled .xlsx form, or
// writes a blank form for a report kind.
//
//	render-form -template equipment -out 设备故障.xlsx
//	render-form -form 设备故障.xlsx -copy
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/garyjia/station-report/internal/application/service"
	"github.com/garyjia/station-report/internal/config"
	"github.com/garyjia/station-report/internal/container"
	"github.com/garyjia/station-report/internal/domain/report"
	"github.com/garyjia/station-report/internal/domain/station"
	"github.com/garyjia/station-report/internal/infrastructure/external/excel"
	"github.com/garyjia/station-report/pkg/utils"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	formPath   string
	template   string
	outPath    string
	station    string
	copy       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "render-form: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("render-form", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "configs/config.yaml", "path to config file")
	fs.StringVar(&opts.formPath, "form", "", "filled .xlsx form to render")
	fs.StringVar(&opts.template, "template", "", "write a blank form for this report kind (equipment, emergency, inspection)")
	fs.StringVar(&opts.outPath, "out", "", "output path for -template")
	fs.StringVar(&opts.station, "station", "", "station name, overrides the form and the saved station")
	fs.BoolVar(&opts.copy, "copy", false, "copy the rendered report with the configured clipboard sink")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case opts.template == "" && opts.formPath == "":
		return nil, errors.New("one of -form or -template is required")
	case opts.template != "" && opts.formPath != "":
		return nil, errors.New("-form and -template are mutually exclusive")
	case opts.template != "" && opts.outPath == "":
		return nil, errors.New("-out is required with -template")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}.WithoutStdout())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	app, err := container.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Close()

	if opts.template != "" {
		return writeTemplate(app, opts, stdout)
	}
	return renderForm(ctx, app, opts, stdout, stderr)
}

func writeTemplate(app *container.Container, opts *options, stdout io.Writer) error {
	kind, err := report.ParseKind(opts.template)
	if err != nil {
		return err
	}

	station := opts.station
	if station == "" {
		station, _ = app.Resolver().EffectiveName()
	}

	if err := excel.NewFormWriter(app.Logger()).SaveTemplate(kind, station, opts.outPath); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s\n", opts.outPath)
	return nil
}

func renderForm(ctx context.Context, app *container.Container, opts *options, stdout, stderr io.Writer) error {
	form, err := excel.NewFormReader(app.Logger()).ReadFile(opts.formPath)
	if err != nil {
		return err
	}

	name := form.Station
	if opts.station != "" {
		name = opts.station
	}
	if name != "" {
		if err := useStation(ctx, app.Resolver(), name); err != nil {
			return err
		}
	}

	reports := app.Reports()
	sess := reports.NewSession()
	if err := reports.SelectReportType(ctx, sess, form.Kind); err != nil {
		return err
	}
	text, err := reports.GenerateReport(ctx, sess, form.Fields)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, text)

	if !opts.copy {
		return nil
	}
	if _, err := reports.CopyToClipboard(ctx, sess); err != nil {
		return err
	}
	app.Logger().Info("Report copied", zap.String("sink", app.Config().Clipboard.Sink))
	fmt.Fprintln(stderr, "已复制到剪贴板")
	return nil
}

// useStation picks name from the option list when it is listed, otherwise
// enters it manually. Either way it becomes the saved station.
func useStation(ctx context.Context, resolver *service.StationResolver, name string) error {
	for _, opt := range resolver.Options() {
		if opt == name {
			return resolver.Select(ctx, name)
		}
	}
	if _, err := resolver.SetOrigin(ctx, station.OriginManual); err != nil {
		return err
	}
	return resolver.SetManual(ctx, name)
}
