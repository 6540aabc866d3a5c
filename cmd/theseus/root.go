package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	progress "gopkg.in/cheggaaa/pb.v1"

	theseus "github.com/amedeedaboville/gix-of-theseus"
	"github.com/amedeedaboville/gix-of-theseus/internal/cohort"
	"github.com/amedeedaboville/gix-of-theseus/internal/engineerr"
)

// rootCmd is modeled on cmd/hercules/root.go's single analysis command,
// trimmed to the one pipeline this engine runs: there is no plugin
// registry or target selection here, so the flag set is just the engine's
// Config fields plus output and progress controls.
var rootCmd = &cobra.Command{
	Use:   "theseus <repository>",
	Short: "Chart a Git repository's line-age cohorts over time.",
	Long: `theseus walks a Git repository's commit history, attributing every line
of every tracked file to the calendar year it was introduced, and emits a
time series of per-year line counts suitable for a Ship of Theseus
stacked-area plot.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoot,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("head", "", "Revision to walk ancestors from. Defaults to the repository's current HEAD.")
	flags.StringSlice("include", nil, "Only attribute paths matching one of these globs. May be repeated.")
	flags.StringSlice("exclude", nil, "Never attribute paths matching one of these globs. May be repeated.")
	flags.StringP("out", "o", "cohorts.json", "Destination for the cohort time series.")
	flags.Int("workers", 0, "Size of the per-file diff worker pool. Defaults to the number of CPUs.")
	flags.Bool("debug", false, "Validate blame-state invariants after every commit. Slower; catches diff-application bugs.")
	flags.Bool("quiet", !isatty.IsTerminal(os.Stderr.Fd()), "Do not print a progress bar to stderr.")
	flags.Bool("dense", false, "Emit one row per calendar week instead of only at triggering commits, carrying the last known distribution forward into empty weeks.")
}

func runRoot(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	repoPath, err := homedir.Expand(args[0])
	if err != nil {
		return engineerr.NewConfigError("expanding repository path: " + err.Error())
	}
	head, _ := flags.GetString("head")
	include, _ := flags.GetStringSlice("include")
	exclude, _ := flags.GetStringSlice("exclude")
	out, _ := flags.GetString("out")
	workers, _ := flags.GetInt("workers")
	debug, _ := flags.GetBool("debug")
	quiet, _ := flags.GetBool("quiet")
	dense, _ := flags.GetBool("dense")

	var bar *progress.ProgressBar
	var onProgress func(processed, total int)
	if !quiet {
		onProgress = func(processed, total int) {
			if bar == nil {
				bar = progress.New(total)
				bar.Callback = func(msg string) {
					fmt.Fprint(os.Stderr, "\033[2K\r"+msg)
				}
				bar.NotPrint = true
				bar.ShowPercent = true
				bar.SetMaxWidth(80).Start()
			}
			bar.Set(processed)
		}
	}

	table, err := theseus.Run(theseus.Config{
		RepoPath:   repoPath,
		Head:       head,
		Include:    include,
		Exclude:    exclude,
		Workers:    workers,
		Debug:      debug,
		OnProgress: onProgress,
		Dense:      dense,
	})
	if bar != nil {
		bar.Finish()
		fmt.Fprint(os.Stderr, "\033[2K\r")
	}
	if err != nil {
		return classify(err)
	}

	if err := cohort.WriteFile(table, out); err != nil {
		return classify(err)
	}
	return nil
}

// classify logs a taxonomy-appropriate message and returns err unchanged so
// cobra's default error printing still fires; main() turns a non-nil
// return into a non-zero exit code.
func classify(err error) error {
	var cfgErr *engineerr.ConfigError
	var objErr *engineerr.ObjectError
	var diffErr *engineerr.DiffError
	var ioErr *engineerr.IOError
	switch {
	case errors.As(err, &cfgErr):
		log.Printf("configuration error: %v", err)
	case errors.As(err, &objErr):
		log.Printf("repository read error: %v", err)
	case errors.As(err, &diffErr):
		log.Printf("diff application error: %v", err)
	case errors.As(err, &ioErr):
		log.Printf("output error: %v", err)
	case errors.Is(err, engineerr.ErrCancelled):
		log.Printf("run cancelled")
	default:
		log.Printf("unexpected error: %v", err)
	}
	return err
}
