package barge

import (
	"os"
	"path/filepath"
	"runtime"
)

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// resolveRuntimeLib locates an ONNX Runtime shared library for the
// current platform. Resolution order: the ONNXRUNTIME_SHARED_LIBRARY_PATH
// environment variable, then data/ next to the working directory or the
// executable (e.g. data/onnxruntime_arm64.dylib), then
// lib/<GOOS>_<GOARCH>/ with the standard library names. An empty return
// leaves onnxruntime_go to its default search path.
func resolveRuntimeLib() string {
	if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" && pathExists(p) {
		return p
	}

	bases := libSearchDirs()
	platform := runtime.GOOS + "_" + runtime.GOARCH

	for _, base := range bases {
		p := filepath.Join(base, "data", dataDirLibName())
		if pathExists(p) {
			return p
		}
	}
	for _, base := range bases {
		for _, name := range standardLibNames() {
			p := filepath.Join(base, "lib", platform, name)
			if pathExists(p) {
				return p
			}
		}
	}
	return ""
}

// standardLibNames returns the shared-library filenames used by official
// ONNX Runtime releases on the current OS. Linux releases ship versioned
// .so files, so those are tried first.
func standardLibNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libonnxruntime.dylib"}
	case "windows":
		return []string{"onnxruntime.dll"}
	default:
		return []string{"libonnxruntime.so.1.23.2", "libonnxruntime.so"}
	}
}

// dataDirLibName is the per-arch filename convention used when the
// runtime is dropped into data/ alongside the VAD model.
func dataDirLibName() string {
	switch runtime.GOOS {
	case "darwin":
		return "onnxruntime_" + runtime.GOARCH + ".dylib"
	case "windows":
		return "onnxruntime.dll"
	default:
		return "onnxruntime_" + runtime.GOARCH + ".so"
	}
}

// libSearchDirs returns the base directories searched for a bundled
// runtime: the working directory, then the running executable's.
func libSearchDirs() []string {
	cwd, _ := os.Getwd()
	exe, err := os.Executable()
	if err != nil {
		return []string{cwd}
	}
	exeDir := filepath.Dir(exe)
	if exeDir == cwd {
		return []string{cwd}
	}
	return []string{cwd, exeDir}
}
