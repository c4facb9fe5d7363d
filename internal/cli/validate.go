package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lecture-quiz/internal/config"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/infra/filesystem"
)

const maxReportedErrors = 20

// NewValidateCmd checks every quiz file in the data directory.
func NewValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [data-dir]",
		Short: "Validate quiz files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			dir := cfg.Quiz.DataDir
			if len(args) == 1 {
				dir = args[0]
			}
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("data directory not found: %s", dir)
			}

			reports, err := validateDir(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No quiz files found in %s\n", dir)
				return nil
			}
			if invalid := writeValidationReport(cmd.OutOrStdout(), reports); invalid > 0 {
				return fmt.Errorf("%d of %d quizzes have errors", invalid, len(reports))
			}
			return nil
		},
	}
}

type quizReport struct {
	path      string
	issues    []domain.Issue
	questions int
	kinds     map[domain.Kind]int
}

func (r quizReport) valid() bool { return domain.Valid(r.issues) }

func validateDir(ctx context.Context, dir string) ([]quizReport, error) {
	paths, err := filesystem.QuizFiles(dir)
	if err != nil {
		return nil, err
	}
	reports := make([]quizReport, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			reports[i] = validateFile(path)
			return nil
		})
	}
	return reports, g.Wait()
}

func validateFile(path string) quizReport {
	report := quizReport{path: path, kinds: make(map[domain.Kind]int)}
	stem := filesystem.Stem(path)

	data, err := os.ReadFile(path)
	if err != nil {
		report.issues = append(report.issues, domain.Issue{Message: fmt.Sprintf("Quiz '%s': %v", stem, err)})
		return report
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		report.issues = append(report.issues, domain.Issue{Message: fmt.Sprintf("Quiz '%s': Invalid JSON: %v", stem, err)})
		return report
	}

	if quiz.ID != "" && quiz.ID != stem {
		report.issues = append(report.issues, domain.Issue{
			Message: fmt.Sprintf("Quiz '%s': ID in file ('%s') doesn't match filename", stem, quiz.ID),
		})
	}
	report.issues = append(report.issues, domain.ValidateQuiz(quiz)...)
	report.questions = len(quiz.Questions)
	for _, q := range quiz.Questions {
		report.kinds[q.Kind]++
	}
	return report
}

// writeValidationReport prints the summary and returns the number of
// invalid quizzes.
func writeValidationReport(w io.Writer, reports []quizReport) int {
	var (
		valid     int
		questions int
		errs      []string
		warnings  []string
	)
	kinds := make(map[domain.Kind]int)
	for _, r := range reports {
		questions += r.questions
		for k, n := range r.kinds {
			kinds[k] += n
		}
		if r.valid() {
			valid++
		}
		for _, issue := range r.issues {
			if issue.Warning {
				warnings = append(warnings, issue.Message)
			} else {
				errs = append(errs, issue.Message)
			}
		}
	}

	fmt.Fprintln(w, "Quiz Validation Report")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)
	if valid == len(reports) {
		fmt.Fprintf(w, "✓ All %d quizzes are valid!\n", len(reports))
	} else {
		fmt.Fprintf(w, "✗ %d/%d quizzes have errors\n", len(reports)-valid, len(reports))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Total quizzes:     %d\n", len(reports))
	fmt.Fprintf(w, "  Valid quizzes:     %d\n", valid)
	fmt.Fprintf(w, "  Total questions:   %d\n", questions)
	if questions > 0 {
		for _, row := range []struct {
			label string
			kind  domain.Kind
		}{
			{"Multiple choice:", domain.KindMultipleChoice},
			{"True/False:", domain.KindTrueFalse},
			{"Short answer:", domain.KindShortAnswer},
		} {
			n := kinds[row.kind]
			fmt.Fprintf(w, "  %-18s %d (%.1f%%)\n", row.label, n, float64(n)/float64(questions)*100)
		}
	}

	printList(w, "Errors:", errs)
	printList(w, "Warnings:", warnings)
	fmt.Fprintln(w)
	return len(reports) - valid
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	for i, item := range items {
		if i == maxReportedErrors {
			fmt.Fprintf(w, "  ... and %d more\n", len(items)-maxReportedErrors)
			break
		}
		fmt.Fprintf(w, "  • %s\n", item)
	}
}
