package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"lessonsolver/internal/pb"
	"lessonsolver/internal/schedule"
)

func main() {
	filePathPtr := flag.String("file", "", "Path to the scenario input file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	backendPtr := flag.String("backend", "", fmt.Sprintf("Solver backend to use. Allowed values are: %s, where the scenario's backend (default \"gophersat\") applies when empty", strings.Join(quoteAll(pb.Backends()), ", ")))
	timeLimitPtr := flag.Float64("time-limit", 0, "Wall-clock limit for the solve in seconds; 0 means no limit")
	assumptionsPtr := flag.Bool("assumptions", true, "Build the model with assumption literals so infeasibility is explained")
	flag.Parse()
	filePath := *filePathPtr
	outFile := *outFilePathPtr
	backend := strings.ToLower(*backendPtr)

	// Validate arguments
	if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if backend != "" && !slices.Contains(pb.Backends(), backend) {
		log.Fatalf("%v is not a valid backend (valid backends: %s)", backend, strings.Join(pb.Backends(), ", "))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	// Extract input
	input, err := schedule.InputFromJSON(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}
	cfg := input.BuildConfig()
	if backend != "" {
		cfg.Backend = backend
	}
	if *timeLimitPtr > 0 {
		cfg.TimeLimit = time.Duration(*timeLimitPtr * float64(time.Second))
	}
	cfg.Assumptions = *assumptionsPtr
	roster := input.Roster()

	// Initialize and run the scheduler
	scheduler, err := schedule.NewScheduler(cfg, roster, input.FixedAssignments(), logger)
	if err != nil {
		log.Fatalf("invalid scenario: %v", err)
	}
	outcome, err := scheduler.Generate()
	if err != nil {
		log.Fatalf("an error occurred during schedule generation: %v", err)
	}

	switch outcome.Status {
	case pb.StatusOptimal, pb.StatusFeasible:
		printGrid(cfg, roster, outcome.Lessons)
		writeLessons(outFile, outcome.Lessons)
		os.Exit(10)
	case pb.StatusInfeasible:
		fmt.Println("No feasible timetable could be generated.")
		for _, summary := range outcome.Summaries {
			fmt.Println(" -", summary.Message)
		}
		for _, hint := range outcome.Hints {
			fmt.Println(" -", hint)
		}
		os.Exit(20)
	default:
		fmt.Println("The solver returned no verdict within the time limit.")
		for _, hint := range outcome.Hints {
			fmt.Println(" -", hint)
		}
		os.Exit(1)
	}
}

func printGrid(cfg schedule.Config, roster *schedule.Roster, lessons []schedule.Lesson) {
	bySlot := make(map[int][]schedule.Lesson)
	for _, lesson := range lessons {
		bySlot[lesson.Slot] = append(bySlot[lesson.Slot], lesson)
	}
	for slot := 0; slot < cfg.Slots; slot++ {
		fmt.Printf("Slot %d:\n", slot)
		for _, lesson := range bySlot[slot] {
			line := fmt.Sprintf("  %s with %s (%s)",
				roster.RequesterName(lesson.RequesterID),
				roster.TeacherName(lesson.TeacherID),
				roster.SubjectName(lesson.SubjectID))
			if lesson.LocationID != nil {
				line += fmt.Sprintf(" @ location %d", *lesson.LocationID)
			}
			fmt.Println(line)
		}
	}
}

func writeLessons(outFile string, lessons []schedule.Lesson) {
	lessonsJSON, err := json.Marshal(lessons)
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}
	if outFile == "" {
		fmt.Println(string(lessonsJSON))
		return
	}
	if err := os.WriteFile(outFile, lessonsJSON, 0666); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}
}

func quoteAll(values []string) []string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return quoted
}
