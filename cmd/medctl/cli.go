package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"daily-medicine-reminder/internal/app"
	"daily-medicine-reminder/internal/config"
	"daily-medicine-reminder/internal/domain/adherence"
	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/clock"
	"github.com/urfave/cli/v2"
)

// bootFunc construye las dependencias a partir de la config ya cargada.
type bootFunc func(ctx context.Context, cfg *config.Config) (*app.App, error)

type services struct {
	clock     *clock.Clock
	medicines *medicines.Service
	doses     *doses.Service
	mat       *doses.Materializer
	adherence *adherence.Service
}

func newServices(a *app.App) services {
	mat := doses.NewMaterializer(a.Repos.Doses, nil)
	return services{
		clock:     a.Clock,
		medicines: medicines.NewService(a.Repos.Medicines, mat, a.Clock, nil),
		doses:     doses.NewService(a.Repos.Doses, a.Clock, nil),
		mat:       mat,
		adherence: adherence.NewService(a.Repos.Adherence, a.Clock),
	}
}

func newCLIApp(boot bootFunc, out io.Writer) *cli.App {
	r := &runner{boot: boot, out: out}
	cliApp := &cli.App{
		Name:    "medctl",
		Usage:   "Operate the daily medicine reminder storage",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"CONFIG_FILE"}, Usage: "Config file (yaml, json, toml)"},
		},
		Commands: []*cli.Command{
			r.migrateCmd(),
			r.todayCmd(),
			r.materializeCmd(),
			r.listCmd(),
			r.takeCmd(),
			r.statsCmd(),
			r.periodCmd(),
			r.calendarCmd(),
			r.lifecycleCmd("archive", "Archive an active medicine", func(s services, c *cli.Context, id string) (any, error) {
				return messageOutput{Message: "Medicine archived successfully"}, s.medicines.Archive(c.Context, id)
			}),
			r.lifecycleCmd("reactivate", "Reactivate an archived medicine", func(s services, c *cli.Context, id string) (any, error) {
				return messageOutput{Message: "Medicine reactivated successfully"}, s.medicines.Reactivate(c.Context, id)
			}),
			r.lifecycleCmd("delete", "Delete a medicine and all its doses", func(s services, c *cli.Context, id string) (any, error) {
				name, err := s.medicines.Delete(c.Context, id)
				return messageOutput{Message: "Medicine deleted successfully", Name: name}, err
			}),
		},
	}
	// Sin os.Exit dentro de la librería: los tests necesitan el error.
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

type runner struct {
	boot bootFunc
	out  io.Writer
}

// with carga config, arma la app y la cierra al terminar.
func (r *runner) with(c *cli.Context, mutate func(*config.Config), fn func(a *app.App) (any, error)) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return outputError(err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	a, err := r.boot(c.Context, cfg)
	if err != nil {
		return outputError(err)
	}
	defer a.Close()

	v, err := fn(a)
	if err != nil {
		return outputError(err)
	}
	return r.outputJSON(v)
}

func (r *runner) migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending migrations for the configured driver",
		Action: func(c *cli.Context) error {
			force := func(cfg *config.Config) { cfg.Storage.AutoMigrate = true }
			return r.with(c, force, func(a *app.App) (any, error) {
				return migrateOutput{Driver: a.Repos.Driver, Status: "up to date"}, nil
			})
		},
	}
}

func (r *runner) todayCmd() *cli.Command {
	return &cli.Command{
		Name:  "today",
		Usage: "Show active medicines with their doses for a date (default today)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "YYYY-MM-DD"},
		},
		Action: func(c *cli.Context) error {
			return r.with(c, nil, func(a *app.App) (any, error) {
				entries, err := newServices(a).medicines.ListForDate(c.Context, c.String("date"))
				if err != nil {
					return nil, err
				}
				out := make([]dayOutput, 0, len(entries))
				for _, e := range entries {
					out = append(out, toDayOutput(e))
				}
				return out, nil
			})
		},
	}
}

func (r *runner) materializeCmd() *cli.Command {
	return &cli.Command{
		Name:  "materialize",
		Usage: "Create missing dose slots of every active medicine for a date",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "YYYY-MM-DD (default today)"},
		},
		Action: func(c *cli.Context) error {
			return r.with(c, nil, func(a *app.App) (any, error) {
				s := newServices(a)
				date := c.String("date")
				if date == "" {
					date = s.clock.Today()
				}
				if err := medicines.ValidateDate(date); err != nil {
					return nil, err
				}
				if err := s.mat.EnsureForAllActive(c.Context, date); err != nil {
					return nil, err
				}
				return messageOutput{Message: "Doses materialized", Date: date}, nil
			})
		},
	}
}

func (r *runner) listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all medicines, active first",
		Action: func(c *cli.Context) error {
			return r.with(c, nil, func(a *app.App) (any, error) {
				ms, err := newServices(a).medicines.ListAll(c.Context)
				if err != nil {
					return nil, err
				}
				out := make([]medicineOutput, 0, len(ms))
				for _, m := range ms {
					out = append(out, toMedicineOutput(m))
				}
				return out, nil
			})
		},
	}
}

func (r *runner) takeCmd() *cli.Command {
	return &cli.Command{
		Name:      "take",
		Usage:     "Mark a dose as taken (or not taken with --undo)",
		ArgsUsage: "<dose-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "undo", Usage: "Mark as not taken"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errs.Invalid("id", "dose id is required"))
			}
			return r.with(c, nil, func(a *app.App) (any, error) {
				d, err := newServices(a).doses.SetTaken(c.Context, c.Args().First(), !c.Bool("undo"))
				if err != nil {
					return nil, err
				}
				return doseOutput{ID: d.ID, Medicine: d.MedicineName, Date: d.Date, Time: d.TimeLabel, Taken: d.Taken, TakenAt: d.TakenAt}, nil
			})
		},
	}
}

func (r *runner) statsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Lifetime adherence per medicine",
		Action: func(c *cli.Context) error {
			return r.with(c, nil, func(a *app.App) (any, error) {
				return newServices(a).adherence.Statistics(c.Context)
			})
		},
	}
}

func (r *runner) periodCmd() *cli.Command {
	return &cli.Command{
		Name:  "period",
		Usage: "Adherence per medicine for the current week or month",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "period", Aliases: []string{"p"}, Value: "week", Usage: "week|month"},
		},
		Action: func(c *cli.Context) error {
			p, err := adherence.ParsePeriod(c.String("period"))
			if err != nil {
				return outputError(err)
			}
			return r.with(c, nil, func(a *app.App) (any, error) {
				return newServices(a).adherence.Period(c.Context, p)
			})
		},
	}
}

func (r *runner) calendarCmd() *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "Daily adherence for a month (default current month)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Aliases: []string{"y"}},
			&cli.IntFlag{Name: "month", Aliases: []string{"m"}},
		},
		Action: func(c *cli.Context) error {
			return r.with(c, nil, func(a *app.App) (any, error) {
				now := a.Clock.Now()
				year, month := c.Int("year"), c.Int("month")
				if year == 0 {
					year = now.Year()
				}
				if month == 0 {
					month = int(now.Month())
				}
				return newServices(a).adherence.Calendar(c.Context, year, month)
			})
		},
	}
}

func (r *runner) lifecycleCmd(name, usage string, fn func(s services, c *cli.Context, id string) (any, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<medicine-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errs.Invalid("id", "medicine id is required"))
			}
			return r.with(c, nil, func(a *app.App) (any, error) {
				return fn(newServices(a), c, c.Args().First())
			})
		},
	}
}

type migrateOutput struct {
	Driver string `json:"driver"`
	Status string `json:"status"`
}

type messageOutput struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
	Date    string `json:"date,omitempty"`
}

type medicineOutput struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Frequency  int        `json:"frequency"`
	Schedule   string     `json:"schedule"`
	CreatedAt  time.Time  `json:"created_at"`
	Archived   bool       `json:"archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

type doseOutput struct {
	ID       string     `json:"id"`
	Medicine string     `json:"medicine,omitempty"`
	Date     string     `json:"date,omitempty"`
	Time     string     `json:"time"`
	Taken    bool       `json:"taken"`
	TakenAt  *time.Time `json:"taken_at,omitempty"`
}

type dayOutput struct {
	medicineOutput
	Doses []doseOutput `json:"doses"`
}

func toMedicineOutput(m medicines.Medicine) medicineOutput {
	return medicineOutput{
		ID:         m.ID,
		Name:       m.Name,
		Frequency:  m.Frequency,
		Schedule:   string(m.Schedule.Kind()),
		CreatedAt:  m.CreatedAt,
		Archived:   m.Archived,
		ArchivedAt: m.ArchivedAt,
	}
}

func toDayOutput(e medicines.DayEntry) dayOutput {
	ds := make([]doseOutput, 0, len(e.Doses))
	for _, d := range e.Doses {
		ds = append(ds, doseOutput{ID: d.ID, Time: d.TimeLabel, Taken: d.Taken, TakenAt: d.TakenAt})
	}
	return dayOutput{medicineOutput: toMedicineOutput(e.Medicine), Doses: ds}
}

func (r *runner) outputJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError antepone el campo a los errores de validación.
func outputError(err error) error {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return cli.Exit(fmt.Sprintf("invalid %s: %s", ve.Field, ve.Reason), 2)
	}
	return cli.Exit(err.Error(), 1)
}
