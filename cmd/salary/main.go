// salary trains and serves the salary prediction model.
//
// Usage:
//
//	salary train [--data Salary_Data.csv | --sqlite salaries.db --table salaries] [--model salary_prediction_model.json] [--plot holdout.png]
//	salary serve [--model salary_prediction_model.json] [--addr 0.0.0.0:5000]
//	salary predict --age 28 --gender Female --education "Master's" --job-title "Data Analyst" --experience 3
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
