package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/config"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Engine   engineInfo  `json:"engine"`
	Project  projectInfo `json:"project"`
	Env      envInfo     `json:"environment"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// engineInfo holds TeX engine detection results.
type engineInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// projectInfo holds configuration and output checks.
type projectInfo struct {
	Root           string   `json:"root"`
	ConfigValid    bool     `json:"config_valid"`
	Languages      []string `json:"languages,omitempty"`
	Template       string   `json:"template"`
	TemplateLoaded bool     `json:"template_loaded"`
	OutputDir      string   `json:"output_dir"`
	OutputWritable bool     `json:"output_writable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "print the result as JSON")
	configName := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}

	result := runDoctor(*configName, env)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	cfg := checkConfig(result, configName, env)
	checkEngine(result, cfg, env)
	checkTemplate(result, cfg)
	checkOutputDir(result)
	checkEnvironment(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfig loads the project configuration. An invalid config is an
// error; the remaining checks then run against the defaults.
func checkConfig(result *doctorResult, configName string, env *Environment) *config.Config {
	cwd, err := env.Getwd()
	if err != nil {
		cwd = "."
	}

	flags := &buildFlags{common: commonFlags{config: configName}}
	cfg, err := loadProjectConfig(flags, loadEnvConfig())
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Configuration: %v", err))
		cfg = config.DefaultConfig()
	} else {
		result.Project.ConfigValid = true
	}

	result.Project.Root = resolveRoot(cfg.Root, cwd)
	result.Project.Languages = cfg.Languages
	result.Project.Template = cfg.Template
	result.Project.OutputDir = resolvePath(result.Project.Root, cfg.Output.Dir)
	return cfg
}

// checkEngine locates the TeX engine and reads its version banner.
func checkEngine(result *doctorResult, cfg *config.Config, env *Environment) {
	name := cfg.Compile.Engine
	if name == "" {
		name = md2latex.DefaultEngine
	}
	result.Engine.Name = name

	path, err := env.LookPath(name)
	if err != nil {
		msg := fmt.Sprintf("TeX engine %q not found in PATH. Install TeX Live or set MD2LATEX_ENGINE", name)
		if cfg.Compile.IsEnabled() {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg+" (compilation is disabled)")
		}
		return
	}
	result.Engine.Found = true
	result.Engine.Path = path

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- engine resolved via LookPath
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get %s version: %v", name, err))
		return
	}
	if first, _, _ := strings.Cut(string(out), "\n"); first != "" {
		result.Engine.Version = strings.TrimSpace(first)
	}
}

// checkTemplate verifies the configured template loads.
func checkTemplate(result *doctorResult, cfg *config.Config) {
	if _, err := newConverter(cfg, result.Project.Root); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Template: %v", err))
		return
	}
	result.Project.TemplateLoaded = true
}

// checkOutputDir verifies the output directory can be written. A missing
// directory is checked through its nearest existing parent.
func checkOutputDir(result *doctorResult) {
	dir := result.Project.OutputDir
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	testFile, err := os.CreateTemp(dir, ".md2latex-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s", result.Project.OutputDir))
		return
	}
	name := testFile.Name()
	_ = testFile.Close()
	_ = os.Remove(name)
	result.Project.OutputWritable = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && !result.Engine.Found {
		result.Warnings = append(result.Warnings,
			"Container/CI detected without a TeX engine. Install texlive-latex-extra or build with --no-compile")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("MD2LATEX_CONTAINER") == "1" {
		return true, "MD2LATEX_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2latex doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "TeX Engine")
	if r.Engine.Found {
		fmt.Fprintf(w, "  [OK] %s found at %s\n", r.Engine.Name, r.Engine.Path)
		if r.Engine.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Engine.Version)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Engine.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Project")
	fmt.Fprintf(w, "  [OK] Root: %s\n", r.Project.Root)
	if r.Project.ConfigValid {
		fmt.Fprintf(w, "  [OK] Configuration: valid (languages: %s)\n", strings.Join(r.Project.Languages, ", "))
	} else {
		fmt.Fprintln(w, "  [ERROR] Configuration: invalid")
	}
	if r.Project.TemplateLoaded {
		fmt.Fprintf(w, "  [OK] Template: %s\n", r.Project.Template)
	} else {
		fmt.Fprintf(w, "  [ERROR] Template: %s not loadable\n", r.Project.Template)
	}
	if r.Project.OutputWritable {
		fmt.Fprintf(w, "  [OK] Output directory: %s\n", r.Project.OutputDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Output directory: %s not writable\n", r.Project.OutputDir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
