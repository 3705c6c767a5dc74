//go:build ignore

// build.go - featurize build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	module     = "github.com/meganhong98/demand-forecasting"
	binaryName = "featurize"
)

var (
	rootDir string
	distDir string

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); err != nil {
		panic("build.go must be run from the module root")
	}
}

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "build":
		buildBinary(*verbose, false)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	case "release":
		runTests(*verbose)
		buildBinary(*verbose, true)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "        featurize - Build System           " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

// gitOutput returns the trimmed output of a git command, or "unknown"
func gitOutput(args ...string) string {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

// ldflags stamps the build metadata reported by "featurize version"
func ldflags(release bool) string {
	pkg := module + "/pkg/contracts"
	flags := []string{
		fmt.Sprintf("-X %s.BuildTime=%s", pkg, time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("-X %s.GitCommit=%s", pkg, gitOutput("rev-parse", "--short", "HEAD")),
		fmt.Sprintf("-X %s.GitBranch=%s", pkg, gitOutput("rev-parse", "--abbrev-ref", "HEAD")),
	}
	if release {
		flags = append([]string{"-s", "-w"}, flags...)
	}
	return strings.Join(flags, " ")
}

func buildBinary(verbose, release bool) {
	printInfo(fmt.Sprintf("Building %s...", binaryName))

	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create %s: %v", distDir, err))
		os.Exit(1)
	}

	exe := binaryName
	if runtime.GOOS == "windows" {
		exe += ".exe"
	}
	outputPath := filepath.Join(distDir, exe)

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	if release {
		args = append(args, "-trimpath")
	}
	args = append(args, "-ldflags", ldflags(release), "-o", outputPath, "./cmd/"+binaryName)

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", binaryName, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, sizeMB))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printWarning(fmt.Sprintf("Failed to remove %s: %v", distDir, err))
		return
	}
	printSuccess("Build artifacts cleaned")
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  build     Build dist/featurize (default)")
	fmt.Println("  test      Run all tests with the race detector")
	fmt.Println("  clean     Remove dist/")
	fmt.Println("  release   Run tests, then build a stripped binary")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v        Verbose output")
}
