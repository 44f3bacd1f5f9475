package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordwise/internal/bank"
	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/stats"
)

var (
	questionsDifficulty string
	questionsLimit      int
	questionsYAML       bool

	addText       string
	addOptions    []string
	addCorrect    int
	addDifficulty string
	addCategory   string

	importBuiltin bool
)

func newQuestionsCmd() *cobra.Command {
	questionsCmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage the question bank",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored questions",
		Args:  cobra.NoArgs,
		RunE:  runQuestionsListCmd,
	}
	listCmd.Flags().StringVar(&questionsDifficulty, "difficulty", "", "only questions of this difficulty")
	listCmd.Flags().IntVar(&questionsLimit, "limit", 0, "maximum number of questions")
	listCmd.Flags().BoolVar(&questionsYAML, "yaml", false, "print an importable YAML bank")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question",
		Args:  cobra.NoArgs,
		RunE:  runQuestionsAddCmd,
	}
	addCmd.Flags().StringVar(&addText, "text", "", "question text")
	addCmd.Flags().StringArrayVar(&addOptions, "option", nil, "answer option (repeat for each option)")
	addCmd.Flags().IntVar(&addCorrect, "correct", 1, "number of the correct option, starting at 1")
	addCmd.Flags().StringVar(&addDifficulty, "difficulty", string(model.DifficultyMedium), "easy, medium or hard")
	addCmd.Flags().StringVar(&addCategory, "category", "", "question category")

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import questions from a YAML or JSON bank",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runQuestionsImportCmd,
	}
	importCmd.Flags().BoolVar(&importBuiltin, "builtin", false, "import the bundled questions")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a question",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuestionsDeleteCmd,
	}

	questionsCmd.AddCommand(listCmd, addCmd, importCmd, deleteCmd)
	return questionsCmd
}

func runQuestionsListCmd(cmd *cobra.Command, _ []string) error {
	filter := model.QuestionFilter{Limit: questionsLimit}
	if questionsDifficulty != "" {
		d, err := model.ParseDifficulty(questionsDifficulty)
		if err != nil {
			return fmt.Errorf("invalid --difficulty: %w", err)
		}
		filter.Difficulty = d
	}
	b, err := openQuestionBackend(cmd)
	if err != nil {
		return err
	}
	defer b.closeQuietly()

	questions, err := b.questions.ListQuestions(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}
	if questionsYAML {
		return bank.WriteYAML(cmd.OutOrStdout(), questions)
	}
	return stats.RenderQuestions(cmd.OutOrStdout(), questions)
}

func runQuestionsAddCmd(cmd *cobra.Command, _ []string) error {
	q, err := questionFromFlags()
	if err != nil {
		return err
	}
	b, err := openQuestionBackend(cmd)
	if err != nil {
		return err
	}
	defer b.closeQuietly()

	id, err := b.questions.CreateQuestion(context.Background(), q)
	if err != nil {
		return fmt.Errorf("failed to add question: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added question %d\n", id)
	return err
}

func runQuestionsImportCmd(cmd *cobra.Command, args []string) error {
	var questions []model.Question
	switch {
	case importBuiltin && len(args) > 0:
		return fmt.Errorf("use either a file or --builtin")
	case importBuiltin:
		questions = bank.Builtin()
	case len(args) == 1:
		loaded, err := bank.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to load question bank: %w", err)
		}
		questions = loaded
	default:
		return fmt.Errorf("a file or --builtin is required")
	}

	b, err := openQuestionBackend(cmd)
	if err != nil {
		return err
	}
	defer b.closeQuietly()

	ctx := context.Background()
	for i, q := range questions {
		if _, err := b.questions.CreateQuestion(ctx, q); err != nil {
			return fmt.Errorf("failed to import question %d: %w", i+1, err)
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions\n", len(questions))
	return err
}

func runQuestionsDeleteCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	b, err := openQuestionBackend(cmd)
	if err != nil {
		return err
	}
	defer b.closeQuietly()

	if err := b.questions.DeleteQuestion(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted question %d\n", id)
	return err
}

func openQuestionBackend(cmd *cobra.Command) (*backend, error) {
	if _, err := loadFileConfig(cmd); err != nil {
		return nil, err
	}
	return openBackend()
}

func questionFromFlags() (model.Question, error) {
	d, err := model.ParseDifficulty(addDifficulty)
	if err != nil {
		return model.Question{}, fmt.Errorf("invalid --difficulty: %w", err)
	}
	q := model.Question{
		Text:          addText,
		Options:       addOptions,
		CorrectAnswer: addCorrect - 1,
		Difficulty:    d,
		Category:      addCategory,
	}
	if err := q.Validate(); err != nil {
		return model.Question{}, fmt.Errorf("invalid question: %w", err)
	}
	return q, nil
}
