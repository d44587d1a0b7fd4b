// Package menu is the interactive front end of the census CLI. It prompts for
// a numbered choice, runs the matching stage, and prints the stage report.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/couchcryptid/squirrel-census-etl/internal/pipeline"
)

// Menu choices.
const (
	ChoiceCleanObservations = iota + 1
	ChoiceCleanAreas
	ChoiceCleanBoth
	ChoiceMerge
	ChoiceInfo
	ChoiceExit
)

const rule = "============================================================"

// Runner is the set of stages the menu dispatches to.
type Runner interface {
	CleanObservations(ctx context.Context) (*pipeline.Report, error)
	CleanAreas(ctx context.Context) (*pipeline.Report, error)
	Merge(ctx context.Context) (*pipeline.Report, error)
	Info(ctx context.Context) []domain.DatasetInfo
}

// Menu reads choices from in and writes prompts and summaries to out.
type Menu struct {
	runner    Runner
	in        *bufio.Scanner
	out       io.Writer
	outputDir string
}

// New creates a Menu. outputDir is only shown to the user.
func New(runner Runner, in io.Reader, out io.Writer, outputDir string) *Menu {
	return &Menu{
		runner:    runner,
		in:        bufio.NewScanner(in),
		out:       out,
		outputDir: outputDir,
	}
}

// Run shows the menu until the user exits, input ends, or ctx is cancelled.
// Stage failures are printed and never end the loop.
func (m *Menu) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		m.printMenu()

		choice, ok := m.choose()
		if !ok {
			m.printf("\nGoodbye!\n")
			return nil
		}
		if choice == ChoiceExit {
			m.printf("\nThank you for using the Central Park Squirrel Census Data Cleaner!\nHappy analyzing!\n")
			return nil
		}

		m.dispatch(ctx, choice)

		m.printf("\nPress Enter to continue...")
		if !m.in.Scan() {
			m.printf("\n")
			return nil
		}
	}
	return nil
}

func (m *Menu) printMenu() {
	m.printf("\n%s\nCENTRAL PARK SQUIRREL CENSUS - DATA CLEANING\n%s\n", rule, rule)
	m.printf("Choose what you want to do:\n")
	m.printf("%d. Clean Squirrel Dataset only\n", ChoiceCleanObservations)
	m.printf("%d. Clean Hectare Dataset only\n", ChoiceCleanAreas)
	m.printf("%d. Clean Both Datasets\n", ChoiceCleanBoth)
	m.printf("%d. Merge Cleaned Datasets\n", ChoiceMerge)
	m.printf("%d. View Dataset Information\n", ChoiceInfo)
	m.printf("%d. Exit\n%s\n", ChoiceExit, rule)
}

// choose prompts until a valid choice is read. It returns false at end of
// input.
func (m *Menu) choose() (int, bool) {
	for {
		m.printf("\nEnter your choice (%d-%d): ", ChoiceCleanObservations, ChoiceExit)
		if !m.in.Scan() {
			return 0, false
		}
		s := strings.TrimSpace(m.in.Text())
		if len(s) == 1 && s[0] >= '1' && s[0] <= '0'+ChoiceExit {
			return int(s[0] - '0'), true
		}
		m.printf("Invalid choice. Please enter a number between %d and %d.\n", ChoiceCleanObservations, ChoiceExit)
	}
}

func (m *Menu) dispatch(ctx context.Context, choice int) {
	switch choice {
	case ChoiceCleanObservations:
		m.printf("\nStarting Squirrel Dataset cleaning...\n")
		r, err := m.runner.CleanObservations(ctx)
		m.printStage("Squirrel dataset cleaning", r, err)

	case ChoiceCleanAreas:
		m.printf("\nStarting Hectare Dataset cleaning...\n")
		r, err := m.runner.CleanAreas(ctx)
		m.printStage("Hectare dataset cleaning", r, err)

	case ChoiceCleanBoth:
		m.printf("\nStarting Both Datasets cleaning...\n")
		r, err := m.runner.CleanObservations(ctx)
		m.printStage("Squirrel dataset cleaning", r, err)
		if err != nil {
			return
		}
		r, err = m.runner.CleanAreas(ctx)
		m.printStage("Hectare dataset cleaning", r, err)
		if err == nil {
			m.printf("\nBoth datasets cleaning complete! Files saved in '%s/'.\n", m.outputDir)
		}

	case ChoiceMerge:
		m.printf("\nStarting Dataset Merge...\n")
		r, err := m.runner.Merge(ctx)
		var missing *domain.MissingInputError
		if errors.As(err, &missing) {
			m.printf("Error: Cleaned datasets not found. Please clean the datasets first.\nMissing file: %s\n", missing.Path)
			return
		}
		m.printStage("Dataset merge", r, err)

	case ChoiceInfo:
		m.printInfo(m.runner.Info(ctx))
	}
}

func (m *Menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}
