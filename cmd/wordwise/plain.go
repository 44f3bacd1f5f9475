package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/quiz"
)

// plainPrinter writes a game as plain lines. The driver serializes its calls.
type plainPrinter struct {
	out       io.Writer
	index     int
	revealed  bool
	writeErrs int
}

func (p *plainPrinter) change(st quiz.State) {
	if st.Phase != quiz.PhasePlaying {
		return
	}
	q, ok := st.Current()
	if !ok {
		return
	}
	if st.Index != p.index {
		p.index = st.Index
		p.revealed = false
		p.printf("\nQuestion %d/%d [%s] (%ds)\n%s\n", st.Index+1, len(st.Questions), q.Difficulty, st.TimeLimit, q.Text)
		for i, option := range q.Options {
			p.printf("  %d. %s\n", i+1, option)
		}
		p.printf("Answer (1-%d): ", len(q.Options))
		return
	}
	if st.Revealed && !p.revealed {
		p.revealed = true
		p.printf("Answer: %d. %s\n", q.CorrectAnswer+1, q.Options[q.CorrectAnswer])
	}
}

func (p *plainPrinter) notice(n quiz.Notice) {
	prefix := "*"
	switch n.Level {
	case quiz.LevelSuccess:
		prefix = "+"
	case quiz.LevelError:
		prefix = "!"
	}
	p.printf("\n%s %s\n", prefix, n.Text)
}

func (p *plainPrinter) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		p.writeErrs++
	}
}

// runPlain plays one game reading option numbers from in, one per line.
func runPlain(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	session *quiz.Session,
	pool []model.Question,
	cfg model.SessionConfig,
	opts quiz.DriverOptions,
) (model.Snapshot, error) {
	p := &plainPrinter{out: out, index: -1}
	opts.OnChange = p.change
	opts.OnNotice = p.notice
	driver := quiz.NewDriver(session, opts)

	go readAnswers(in, driver)

	snap, err := driver.Run(ctx, pool, cfg)
	if err != nil {
		return model.Snapshot{}, err
	}
	driver.Wait()

	count := len(session.State().Questions)
	p.printf("\nFinal score: %d (%.0f%%)  Best streak: %d  Games played: %d\n",
		snap.Score, quiz.Percentage(snap.Score, count), snap.BestStreak, snap.GamesPlayed)
	if p.writeErrs > 0 {
		logErrf("failed to write %d lines of output\n", p.writeErrs)
	}
	return snap, nil
}

func readAnswers(in io.Reader, driver *quiz.Driver) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		option, ok := parseAnswer(scanner.Text())
		if !ok {
			continue
		}
		driver.Answer(option)
	}
}

// parseAnswer converts a 1-based option number to an option index.
func parseAnswer(line string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}
