// Package offline prepares the bundled Node.js runtime, CLI package and
// optional portable Git that ship next to the manager executable, so openclaw
// can be installed on machines without network access.
package offline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"claw-manager/internal/logger"
	"claw-manager/internal/shell"
	"claw-manager/internal/state"
)

// ErrResourceNotFound is returned when a required bundled archive is missing.
var ErrResourceNotFound = errors.New("bundled resource not found")

// Component names recorded in the state file.
const (
	ComponentNode       = "node"
	ComponentCLIPackage = "cli-package"
	ComponentGit        = "git"
	ComponentCLI        = "cli"
)

// defaultPackage is the CLI tarball name looked up before any other *.tgz.
const defaultPackage = "openclaw/openclaw-zh.tgz"

// Runtime is the on-disk layout of a prepared offline runtime.
type Runtime struct {
	Root       string `json:"root"`
	NodeDir    string `json:"nodeDir"`
	NpmPrefix  string `json:"npmPrefix"`            // npm --prefix for global installs
	CLICommand string `json:"cliCommand"`           // the CLI launcher npm creates under NpmPrefix
	CLIPackage string `json:"cliPackage,omitempty"` // staged copy of the CLI tarball
	GitExe     string `json:"gitExe,omitempty"`     // empty when no Git archive is bundled
}

// BinDirs returns the directories that belong on PATH, in lookup order.
func (r Runtime) BinDirs(goos string) []string {
	var dirs []string
	if goos == "windows" {
		dirs = []string{r.NodeDir, r.NpmPrefix}
	} else {
		dirs = []string{filepath.Join(r.NodeDir, "bin"), filepath.Join(r.NpmPrefix, "bin")}
	}
	if r.GitExe != "" {
		dirs = append(dirs, filepath.Dir(r.GitExe))
	}
	return dirs
}

// Bootstrapper unpacks bundled resources into Root.
type Bootstrapper struct {
	Root         string
	ResourceDirs []string // searched in order for the bundled archives
	StateFile    string   // optional; prepared components are recorded here
	CLIName      string
	GOOS         string // defaults to runtime.GOOS
	GOARCH       string // defaults to runtime.GOARCH
}

// DefaultResourceDirs returns extra followed by the resources directories
// next to the running executable.
func DefaultResourceDirs(extra ...string) []string {
	dirs := append([]string{}, extra...)
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, filepath.Join(exeDir, "resources"), filepath.Join(exeDir, "..", "resources"))
	}
	return dirs
}

func (b *Bootstrapper) goos() string {
	if b.GOOS != "" {
		return b.GOOS
	}
	return runtime.GOOS
}

func (b *Bootstrapper) goarch() string {
	if b.GOARCH != "" {
		return b.GOARCH
	}
	return runtime.GOARCH
}

func (b *Bootstrapper) windows() bool { return b.goos() == "windows" }

// Layout returns where each component lives once prepared. CLIPackage is only
// known after Prepare; GitExe is set when Git is already unpacked.
func (b *Bootstrapper) Layout() Runtime {
	name := b.cliName()
	rt := Runtime{
		Root:      b.Root,
		NodeDir:   filepath.Join(b.Root, "node"),
		NpmPrefix: filepath.Join(b.Root, "npm-global"),
	}
	if b.windows() {
		rt.CLICommand = filepath.Join(rt.NpmPrefix, name+".cmd")
	} else {
		rt.CLICommand = filepath.Join(rt.NpmPrefix, "bin", name)
	}
	if exe, ok := b.gitExe(); ok {
		rt.GitExe = exe
	}
	return rt
}

// Ready reports whether the Node.js runtime has been unpacked.
func (b *Bootstrapper) Ready() bool {
	nodeDir := b.Layout().NodeDir
	return fileExists(filepath.Join(nodeDir, b.nodeMarker())) && fileExists(b.npmPath(nodeDir))
}

// Prepare unpacks Node.js, stages the CLI package and unpacks Git when bundled.
// Components that are already in place are reused.
func (b *Bootstrapper) Prepare() (Runtime, error) {
	if err := os.MkdirAll(b.Root, 0755); err != nil {
		return Runtime{}, fmt.Errorf("failed to create runtime directory: %w", err)
	}
	rt := b.Layout()
	st := b.loadState()

	nodeArchive, err := b.prepareNode(rt.NodeDir)
	if err != nil {
		return rt, fmt.Errorf("failed to prepare offline Node.js: %w", err)
	}
	if nodeArchive != "" && st != nil {
		st.Record(ComponentNode, nodeArchive, rt.NodeDir)
	}

	pkgSource, pkg, err := b.preparePackage()
	if err != nil {
		return rt, fmt.Errorf("failed to prepare offline CLI package: %w", err)
	}
	rt.CLIPackage = pkg
	if pkgSource != "" && st != nil {
		st.Record(ComponentCLIPackage, pkgSource, pkg)
	}

	if err := os.MkdirAll(rt.NpmPrefix, 0755); err != nil {
		return rt, fmt.Errorf("failed to create npm prefix: %w", err)
	}

	gitArchive, gitExe, err := b.prepareGit()
	if err != nil {
		return rt, fmt.Errorf("failed to prepare offline Git: %w", err)
	}
	rt.GitExe = gitExe
	if gitArchive != "" && st != nil {
		st.Record(ComponentGit, gitArchive, gitExe)
	}

	if st != nil {
		if err := state.Save(b.StateFile, st); err != nil {
			return rt, err
		}
	}
	return rt, nil
}

// Install runs the bundled npm to install the staged CLI package into the
// runtime's prefix. It is a no-op when the CLI launcher already exists.
func (b *Bootstrapper) Install(ctx context.Context, runner shell.Runner, rt Runtime) error {
	if fileExists(rt.CLICommand) {
		logger.Info("[INFO] %s already installed at %s\n", b.cliName(), rt.CLICommand)
		return nil
	}
	npm := b.npmPath(rt.NodeDir)
	if !fileExists(npm) {
		return fmt.Errorf("offline Node.js runtime is incomplete: missing %s", filepath.Base(npm))
	}
	if rt.CLIPackage == "" {
		return fmt.Errorf("%w: no CLI package staged", ErrResourceNotFound)
	}

	logger.Info("[INFO] Installing %s from %s\n", b.cliName(), rt.CLIPackage)
	res, err := runner.Run(ctx, shell.Command{
		Name: npm,
		Args: []string{"install", "-g", rt.CLIPackage, "--prefix", rt.NpmPrefix, "--no-audit", "--fund=false", "--loglevel=error"},
	})
	if err != nil {
		return fmt.Errorf("npm install failed: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("npm install failed: %s", res.Combined())
	}
	if !fileExists(rt.CLICommand) {
		return fmt.Errorf("npm install finished but %s was not created", rt.CLICommand)
	}

	if b.StateFile != "" {
		st := state.Load(b.StateFile)
		st.Record(ComponentCLI, rt.CLIPackage, rt.CLICommand)
		if err := state.Save(b.StateFile, st); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bootstrapper) cliName() string {
	if b.CLIName == "" {
		return "openclaw"
	}
	return b.CLIName
}

func (b *Bootstrapper) loadState() *state.State {
	if b.StateFile == "" {
		return nil
	}
	return state.Load(b.StateFile)
}

// prepareNode returns the archive it unpacked, or "" when Node.js was already there.
func (b *Bootstrapper) prepareNode(nodeDir string) (string, error) {
	if b.Ready() {
		logger.Debug("[DEBUG] offline Node.js already prepared at %s\n", nodeDir)
		return "", nil
	}
	candidates := b.nodeArchives()
	archive, ok := b.findResource(candidates...)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, strings.Join(candidates, ", "))
	}
	if err := b.unpack(archive, ComponentNode, b.nodeMarker(), nodeDir); err != nil {
		return "", err
	}
	if !fileExists(b.npmPath(nodeDir)) {
		return "", fmt.Errorf("Node.js archive %s has no %s", filepath.Base(archive), filepath.Base(b.npmPath(nodeDir)))
	}
	return archive, nil
}

// preparePackage copies the CLI tarball into packages/. It returns the source
// path (empty when the staged copy was reused) and the staged path.
func (b *Bootstrapper) preparePackage() (string, string, error) {
	packagesDir := filepath.Join(b.Root, "packages")
	if err := os.MkdirAll(packagesDir, 0755); err != nil {
		return "", "", err
	}

	source, ok := b.findResource(defaultPackage)
	if !ok {
		source, ok = b.findPackageTarball()
	}
	if !ok {
		// a previous run may have staged one already
		if staged, found := firstTarball(packagesDir); found {
			return "", staged, nil
		}
		return "", "", fmt.Errorf("%w: %s", ErrResourceNotFound, defaultPackage)
	}

	target := filepath.Join(packagesDir, filepath.Base(source))
	if fileExists(target) {
		return "", target, nil
	}
	logger.Info("[INFO] Staging %s\n", filepath.Base(source))
	if err := copyFile(source, target, 0644); err != nil {
		return "", "", err
	}
	return source, target, nil
}

// prepareGit unpacks a bundled Git when one exists. A missing archive is not an error.
func (b *Bootstrapper) prepareGit() (string, string, error) {
	if exe, ok := b.gitExe(); ok {
		return "", exe, nil
	}
	archive, ok := b.findResource(b.gitArchives()...)
	if !ok {
		logger.Debug("[DEBUG] no bundled Git archive\n")
		return "", "", nil
	}
	if err := b.unpack(archive, ComponentGit, b.gitMarker(), filepath.Join(b.Root, "git")); err != nil {
		return "", "", err
	}
	exe, ok := b.gitExe()
	if !ok {
		return "", "", fmt.Errorf("Git archive %s has no %s", filepath.Base(archive), b.gitMarker())
	}
	return archive, exe, nil
}

// unpack extracts archive into a scratch directory and moves the folder that
// holds marker to dst.
func (b *Bootstrapper) unpack(archive, name, marker, dst string) error {
	scratch := filepath.Join(b.Root, "tmp-"+name+"-extract")
	if err := os.RemoveAll(scratch); err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	logger.Info("[INFO] Unpacking %s\n", filepath.Base(archive))
	if err := Extract(archive, scratch); err != nil {
		return fmt.Errorf("failed to extract %s: %w", filepath.Base(archive), err)
	}
	dir, ok := findTopLevelDirContaining(scratch, marker)
	if !ok {
		return fmt.Errorf("%s archive %s has no %s", name, filepath.Base(archive), marker)
	}
	return moveOrCopyDir(dir, dst)
}

func (b *Bootstrapper) gitExe() (string, bool) {
	dir, ok := findDirWithFile(filepath.Join(b.Root, "git"), b.gitMarker())
	if !ok {
		return "", false
	}
	return filepath.Join(dir, b.gitMarker()), true
}

// findResource returns the first relative path that exists under a resource dir.
// Directories are the outer loop so a closer bundle wins as a whole.
func (b *Bootstrapper) findResource(relatives ...string) (string, bool) {
	for _, dir := range b.ResourceDirs {
		for _, rel := range relatives {
			p := filepath.Join(dir, filepath.FromSlash(rel))
			if fileExists(p) {
				return p, true
			}
		}
	}
	return "", false
}

// findPackageTarball falls back to any tarball in an openclaw/ resource folder.
func (b *Bootstrapper) findPackageTarball() (string, bool) {
	for _, dir := range b.ResourceDirs {
		if p, ok := firstTarball(filepath.Join(dir, "openclaw")); ok {
			return p, true
		}
	}
	return "", false
}

func firstTarball(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && (strings.HasSuffix(e.Name(), ".tgz") || strings.HasSuffix(e.Name(), ".tar.gz")) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), true
}

// platformTag maps GOOS/GOARCH to the names Node.js uses for its downloads.
func (b *Bootstrapper) platformTag() string {
	osName := b.goos()
	if osName == "darwin" {
		osName = "macos"
	}
	arch := b.goarch()
	switch arch {
	case "amd64":
		arch = "x64"
	case "386":
		arch = "x86"
	}
	return osName + "-" + arch
}

func (b *Bootstrapper) archiveExts() []string {
	if b.windows() {
		return []string{".zip", ".7z"}
	}
	return []string{".tar.gz", ".tar.xz", ".tar.bz2", ".zip"}
}

func (b *Bootstrapper) nodeArchives() []string {
	var names []string
	for _, ext := range b.archiveExts() {
		names = append(names, "nodejs/node-"+b.platformTag()+ext)
	}
	return names
}

func (b *Bootstrapper) gitArchives() []string {
	var names []string
	for _, ext := range b.archiveExts() {
		names = append(names, "git/git-"+b.platformTag()+ext)
	}
	return append(names, "git/git-portable.zip", "git/PortableGit.zip", "git/PortableGit.7z")
}

func (b *Bootstrapper) nodeMarker() string {
	if b.windows() {
		return "node.exe"
	}
	return filepath.Join("bin", "node")
}

func (b *Bootstrapper) npmPath(nodeDir string) string {
	if b.windows() {
		return filepath.Join(nodeDir, "npm.cmd")
	}
	return filepath.Join(nodeDir, "bin", "npm")
}

func (b *Bootstrapper) gitMarker() string {
	if b.windows() {
		return "git.exe"
	}
	return "git"
}
