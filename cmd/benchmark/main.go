package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const executablePath = "../../bin/lessonsolver"

type ResultType int

const (
	solved ResultType = iota
	infeasible
	timeout
)

var resultTypes = map[ResultType]string{
	solved:     "solved",
	infeasible: "infeasible",
	timeout:    "timeout",
}

// ScenarioMetadata sizes one generated benchmark scenario.
type ScenarioMetadata struct {
	Name     string
	Slots    int
	Students int
	Groups   int
	Teachers int
	Subjects int
	Tight    bool
}

type BenchmarkResult struct {
	Backend       string
	Scenario      ScenarioMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

func main() {
	directory, err := os.MkdirTemp("", "lessonsolver-bench")
	if err != nil {
		log.Fatalf("cannot create scenario directory: %v", err)
	}
	defer os.RemoveAll(directory)

	scenarios := generateScenarios(directory)
	backends := []string{"gophersat"}
	results := make([]BenchmarkResult, 0, len(scenarios)*len(backends))

	for _, scenario := range scenarios {
		for _, backend := range backends {
			fmt.Printf("Benchmarking scenario \"%v\" with backend \"%v\"\n", scenario.Name, backend)

			duration, maxMemory, cpuPercentage, result := measure(backend, scenario.Name)

			results = append(results, BenchmarkResult{
				Backend:       backend,
				Scenario:      scenario,
				Duration:      duration,
				Memory:        maxMemory,
				CpuPercentage: cpuPercentage,
				Result:        result,
			})
		}
	}

	toCsv(results)
}

// generateScenarios writes a grid of synthetic scenario files. Tight variants
// shrink the slot grid until demand exceeds capacity, so both the feasible and
// the diagnosis paths get exercised.
func generateScenarios(directory string) []ScenarioMetadata {
	rng := rand.New(rand.NewSource(42))
	sizes := []struct {
		students int
		teachers int
		subjects int
		slots    int
	}{
		{students: 5, teachers: 2, subjects: 3, slots: 8},
		{students: 15, teachers: 5, subjects: 6, slots: 10},
		{students: 40, teachers: 10, subjects: 10, slots: 12},
	}

	scenarios := make([]ScenarioMetadata, 0, len(sizes)*2)
	for _, size := range sizes {
		for _, tight := range []bool{false, true} {
			slots := size.slots
			if tight {
				slots = max(2, slots/4)
			}
			metadata := ScenarioMetadata{
				Slots:    slots,
				Students: size.students,
				Teachers: size.teachers,
				Subjects: size.subjects,
				Tight:    tight,
			}
			metadata.Name = filepath.Join(directory, fmt.Sprintf("s%d_t%d_sl%d_tight_%v.json", size.students, size.teachers, slots, tight))
			writeScenario(rng, metadata)
			scenarios = append(scenarios, metadata)
		}
	}
	return scenarios
}

func writeScenario(rng *rand.Rand, metadata ScenarioMetadata) {
	scenario := map[string]any{
		"slots": metadata.Slots,
		"subjects": lo.Times(metadata.Subjects, func(i int) map[string]any {
			return map[string]any{"id": i + 1, "name": fmt.Sprintf("Subject %d", i+1)}
		}),
		"teachers": lo.Times(metadata.Teachers, func(i int) map[string]any {
			subjects := lo.Filter(lo.Range(metadata.Subjects), func(s, _ int) bool {
				return (s+i)%metadata.Teachers == 0 || rng.Intn(3) == 0
			})
			return map[string]any{
				"id":       i + 1,
				"name":     fmt.Sprintf("Teacher %d", i+1),
				"subjects": lo.Map(subjects, func(s, _ int) int { return s + 1 }),
			}
		}),
		"students": lo.Times(metadata.Students, func(i int) map[string]any {
			count := 1 + rng.Intn(3)
			subjects := make([]int, 0, count)
			for len(subjects) < count {
				candidate := 1 + rng.Intn(metadata.Subjects)
				if !lo.Contains(subjects, candidate) {
					subjects = append(subjects, candidate)
				}
			}
			return map[string]any{
				"id":       i + 1,
				"name":     fmt.Sprintf("Student %d", i+1),
				"subjects": subjects,
			}
		}),
		"config": map[string]any{
			"minLessons": 1,
			"maxLessons": metadata.Slots,
		},
	}

	contents, err := json.Marshal(scenario)
	if err != nil {
		log.Fatalf("cannot marshal scenario: %v", err)
	}
	if err := os.WriteFile(metadata.Name, contents, 0666); err != nil {
		log.Fatalf("cannot write scenario file: %v", err)
	}
}

func measure(backend string, scenarioFile string) (duration int64, maxMemory float32, cpuPercentage int64, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "-backend", backend, "-file", scenarioFile)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	switch cmd.ProcessState.ExitCode() {
	case 10:
		result = solved
	case 20:
		result = infeasible
	case 1:
		result = timeout
	default:
		log.Fatalf("an error occurred during the execution of \"lessonsolver\" at scenario \"%v\" using backend \"%v\": %v\n", scenarioFile, backend, stdErr.String())
	}
	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Backend", "Scenario", "Slots", "Students", "Groups", "Teachers", "Subjects", "Tight", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Backend,
			filepath.Base(result.Scenario.Name),
			fmt.Sprintf("%d", result.Scenario.Slots),
			fmt.Sprintf("%d", result.Scenario.Students),
			fmt.Sprintf("%d", result.Scenario.Groups),
			fmt.Sprintf("%d", result.Scenario.Teachers),
			fmt.Sprintf("%d", result.Scenario.Subjects),
			fmt.Sprintf("%v", result.Scenario.Tight),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / 1024
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
