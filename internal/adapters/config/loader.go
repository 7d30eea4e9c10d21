package config

import (
	"fmt"
	"os"
	"strings"

	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Load reads a manifest file and materializes the resolved graph.
func Load(path, rootPath string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrManifestReadFailed, path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrManifestParseFailed, path, err)
	}
	return BuildGraph(&m, rootPath)
}

// BuildGraph converts a parsed manifest into a validated graph with every
// target's output files resolved.
func BuildGraph(m *Manifest, rootPath string) (*domain.Graph, error) {
	buildDir := m.BuildDir
	if buildDir == "" {
		buildDir = "//out/"
	}
	if !strings.HasSuffix(buildDir, "/") {
		buildDir += "/"
	}
	g := domain.NewGraph(&domain.BuildSettings{
		BuildDir: buildDir,
		RootPath: rootPath,
	})

	for i := range m.Toolchains {
		tc, err := buildToolchain(&m.Toolchains[i])
		if err != nil {
			return nil, err
		}
		if err := g.AddToolchain(tc); err != nil {
			return nil, err
		}
	}
	if m.DefaultToolchain != "" {
		label, err := parseLabel(m.DefaultToolchain)
		if err != nil {
			return nil, err
		}
		g.SetDefaultToolchain(label)
	}

	for i := range m.Targets {
		t, err := buildTarget(&m.Targets[i], g.DefaultToolchain)
		if err != nil {
			return nil, err
		}
		if err := g.AddTarget(t); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := ResolveOutputs(g); err != nil {
		return nil, err
	}
	return g, nil
}

func parseLabel(s string) (domain.Label, error) {
	if !strings.HasPrefix(s, "//") {
		return domain.Label{}, zerr.With(domain.ErrManifestParseFailed, "label", s)
	}
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return domain.Label{}, zerr.With(domain.ErrManifestParseFailed, "label", s)
	}
	dir := s[:i]
	if dir != "//" {
		dir += "/"
	}
	return domain.NewLabel(dir, s[i+1:]), nil
}

func buildToolchain(tm *ToolchainManifest) (*domain.Toolchain, error) {
	label, err := parseLabel(tm.Label)
	if err != nil {
		return nil, err
	}
	tc := domain.NewToolchain(label)
	for _, p := range tm.Pools {
		tc.SetPool(domain.Pool{Name: p.Name, Depth: p.Depth})
	}
	for name, t := range tm.Tools {
		tool, err := buildTool(name, &t)
		if err != nil {
			return nil, zerr.With(err, "toolchain", tm.Label)
		}
		tc.SetTool(tool)
	}
	if err := tc.Seal(); err != nil {
		return nil, err
	}
	return tc, nil
}

func buildTool(name string, tm *ToolManifest) (*domain.Tool, error) {
	tool := domain.NewTool(name)

	pattern := func(s string, dst func(domain.SubstitutionPattern)) error {
		if s == "" {
			return nil
		}
		p, err := domain.ParsePattern(s)
		if err != nil {
			return zerr.With(err, "tool", name)
		}
		dst(p)
		return nil
	}
	list := func(ss []string, dst func(domain.SubstitutionList)) error {
		if len(ss) == 0 {
			return nil
		}
		l, err := domain.ParseList(ss)
		if err != nil {
			return zerr.With(err, "tool", name)
		}
		dst(l)
		return nil
	}

	if err := pattern(tm.Command, tool.SetCommand); err != nil {
		return nil, err
	}
	if err := pattern(tm.Depfile, tool.SetDepfile); err != nil {
		return nil, err
	}
	if err := pattern(tm.Description, tool.SetDescription); err != nil {
		return nil, err
	}
	if err := pattern(tm.Rspfile, tool.SetRspfile); err != nil {
		return nil, err
	}
	if err := pattern(tm.RspfileContent, tool.SetRspfileContent); err != nil {
		return nil, err
	}
	if err := pattern(tm.DefaultOutputDir, tool.SetDefaultOutputDir); err != nil {
		return nil, err
	}
	if err := list(tm.Outputs, tool.SetOutputs); err != nil {
		return nil, err
	}
	if err := list(tm.RuntimeOutputs, tool.SetRuntimeOutputs); err != nil {
		return nil, err
	}

	tool.SetRestat(tm.Restat)
	tool.SetPool(tm.Pool)
	tool.SetOutputPrefix(tm.OutputPrefix)
	if tm.DefaultOutputExtension != "" {
		tool.SetDefaultOutputExtension(tm.DefaultOutputExtension)
	}

	if c := tool.AsC(); c != nil {
		c.DepsFormat = tm.DepsFormat
		c.LibSwitch = tm.LibSwitch
		c.LibDirSwitch = tm.LibDirSwitch
		c.FrameworkSwitch = tm.FrameworkSwitch
		c.FrameworkDirSwitch = tm.FrameworkDirSwitch
		c.SwiftModuleSwitch = tm.SwiftModuleSwitch
		switch tm.PrecompiledHeaderType {
		case "":
			c.PrecompiledHeaderType = domain.PCHNone
		case "gcc":
			c.PrecompiledHeaderType = domain.PCHGCC
		case "msvc":
			c.PrecompiledHeaderType = domain.PCHMSVC
		default:
			return nil, zerr.With(domain.ErrManifestParseFailed,
				"precompiled_header_type", tm.PrecompiledHeaderType)
		}
		if err := pattern(tm.LinkOutput, func(p domain.SubstitutionPattern) { c.LinkOutput = p }); err != nil {
			return nil, err
		}
		if err := pattern(tm.DependOutput, func(p domain.SubstitutionPattern) { c.DependOutput = p }); err != nil {
			return nil, err
		}
		if err := list(tm.PartialOutputs, func(l domain.SubstitutionList) { c.PartialOutputs = l }); err != nil {
			return nil, err
		}
	}
	return tool, nil
}

var outputTypesByName = map[string]domain.OutputType{
	"group":           domain.OutputGroup,
	"executable":      domain.OutputExecutable,
	"shared_library":  domain.OutputSharedLibrary,
	"loadable_module": domain.OutputLoadableModule,
	"static_library":  domain.OutputStaticLibrary,
	"source_set":      domain.OutputSourceSet,
	"copy":            domain.OutputCopy,
	"action":          domain.OutputAction,
	"action_foreach":  domain.OutputActionForEach,
	"bundle":          domain.OutputBundle,
	"rust_library":    domain.OutputRustLibrary,
	"rust_proc_macro": domain.OutputRustProcMacro,
	"swift_module":    domain.OutputSwiftModule,
}

var crateTypesByName = map[string]domain.CrateType{
	"bin":        domain.CrateBin,
	"rlib":       domain.CrateRlib,
	"dylib":      domain.CrateDylib,
	"cdylib":     domain.CrateCDylib,
	"staticlib":  domain.CrateStaticlib,
	"proc-macro": domain.CrateProcMacro,
}

func buildTarget(tm *TargetManifest, defaultToolchain domain.Label) (*domain.Target, error) {
	label, err := parseLabel(tm.Label)
	if err != nil {
		return nil, err
	}
	outputType, ok := outputTypesByName[tm.Type]
	if !ok {
		return nil, zerr.With(zerr.With(domain.ErrManifestParseFailed,
			"target", tm.Label), "type", tm.Type)
	}

	toolchain := defaultToolchain
	if tm.Toolchain != "" {
		if toolchain, err = parseLabel(tm.Toolchain); err != nil {
			return nil, err
		}
	}

	t := &domain.Target{
		Label:      label.InToolchain(toolchain),
		Type:       outputType,
		Toolchain:  toolchain,
		OutputName: tm.OutputName,
		OutputDir:  tm.OutputDir,
	}
	if tm.OutputExtension != nil {
		t.OutputExtension = *tm.OutputExtension
		t.OutputExtensionSet = true
	}

	for _, s := range tm.Sources {
		t.Sources = append(t.Sources, domain.NewSourceFile(s))
	}
	for _, s := range tm.Inputs {
		t.Config.Inputs = append(t.Config.Inputs, domain.NewSourceFile(s))
	}

	appendDeps := func(dst *[]domain.Label, labels []string) error {
		for _, s := range labels {
			dep, err := parseLabel(s)
			if err != nil {
				return err
			}
			*dst = append(*dst, dep.InToolchain(toolchain))
		}
		return nil
	}
	if err := appendDeps(&t.PublicDeps, tm.PublicDeps); err != nil {
		return nil, err
	}
	if err := appendDeps(&t.PrivateDeps, tm.Deps); err != nil {
		return nil, err
	}
	if err := appendDeps(&t.DataDeps, tm.DataDeps); err != nil {
		return nil, err
	}

	t.Config.Defines = tm.Defines
	t.Config.IncludeDirs = tm.IncludeDirs
	t.Config.CFlags = tm.CFlags
	t.Config.CFlagsC = tm.CFlagsC
	t.Config.CFlagsCc = tm.CFlagsCc
	t.Config.CFlagsObjC = tm.CFlagsObjC
	t.Config.CFlagsObjCc = tm.CFlagsObjCc
	t.Config.AsmFlags = tm.AsmFlags
	t.Config.SwiftFlags = tm.SwiftFlags
	t.Config.LdFlags = tm.LdFlags
	t.Config.ArFlags = tm.ArFlags
	t.Config.LibDirs = tm.LibDirs
	t.Config.Frameworks = tm.Frameworks
	t.Config.FrameworkDirs = tm.FrameworkDirs
	t.Config.RustFlags = tm.RustFlags
	t.Config.RustEnv = tm.RustEnv
	t.Config.PrecompiledHeader = tm.PrecompiledHeader
	if tm.PrecompiledSource != "" {
		t.Config.PrecompiledSource = domain.NewSourceFile(tm.PrecompiledSource)
	}
	for _, lib := range tm.Libs {
		if domain.IsSourceAbsolute(lib) {
			t.Config.Libs = append(t.Config.Libs,
				domain.NewLibFilePath(domain.NewSourceFile(lib)))
		} else {
			t.Config.Libs = append(t.Config.Libs, domain.NewLibFile(lib))
		}
	}

	if tm.Swift != nil {
		t.Swift = &domain.SwiftValues{ModuleName: tm.Swift.ModuleName}
	}
	if tm.Rust != nil {
		crateType, ok := crateTypesByName[tm.Rust.CrateType]
		if !ok {
			return nil, zerr.With(zerr.With(domain.ErrManifestParseFailed,
				"target", tm.Label), "crate_type", tm.Rust.CrateType)
		}
		t.Rust = &domain.RustValues{
			CrateName: tm.Rust.CrateName,
			CrateRoot: domain.NewSourceFile(tm.Rust.CrateRoot),
			CrateType: crateType,
		}
		if t.Rust.CrateName == "" {
			t.Rust.CrateName = label.Name
		}
	}
	if tm.Action != nil {
		args, err := domain.ParseList(tm.Action.Args)
		if err != nil {
			return nil, zerr.With(err, "target", tm.Label)
		}
		outputs, err := domain.ParseList(tm.Action.Outputs)
		if err != nil {
			return nil, zerr.With(err, "target", tm.Label)
		}
		rsp, err := domain.ParseList(tm.Action.ResponseFileContents)
		if err != nil {
			return nil, zerr.With(err, "target", tm.Label)
		}
		var depfile domain.SubstitutionPattern
		if tm.Action.Depfile != "" {
			if depfile, err = domain.ParsePattern(tm.Action.Depfile); err != nil {
				return nil, zerr.With(err, "target", tm.Label)
			}
		}
		t.Action = &domain.ActionValues{
			Script:               domain.NewSourceFile(tm.Action.Script),
			Args:                 args,
			Outputs:              outputs,
			Depfile:              depfile,
			ResponseFileContents: rsp,
			Pool:                 tm.Action.Pool,
		}
	}
	if tm.Bundle != nil {
		t.Bundle = &domain.BundleValues{IsFramework: tm.Bundle.Framework}
	}
	return t, nil
}

// ResolveOutputs computes every target's link and dependency output files
// the way the front-end does before handing the graph to emission.
func ResolveOutputs(g *domain.Graph) error {
	for _, t := range g.Targets() {
		settings := g.SettingsFor(t.Toolchain)
		tc := g.ToolchainForTarget(t)

		switch t.Type {
		case domain.OutputExecutable, domain.OutputSharedLibrary,
			domain.OutputLoadableModule, domain.OutputStaticLibrary,
			domain.OutputRustLibrary, domain.OutputRustProcMacro:
			toolName := domain.ToolNameForTargetFinalOutput(t)
			tool := tc.Tool(toolName)
			if tool == nil {
				return zerr.With(zerr.With(domain.ErrUnknownTool,
					"target", t.Label.String()), "tool", toolName)
			}
			t.ComputedOutputName = tool.OutputPrefix() + t.OutputName
			outputs := domain.ApplyListToLinkerAsOutputFiles(settings, t, tool, tool.Outputs())
			if len(outputs) == 0 {
				return zerr.With(zerr.With(domain.ErrManifestParseFailed,
					"target", t.Label.String()), "tool", toolName+" has no outputs")
			}
			t.LinkOutputFile = outputs[0]
			t.DependencyOutputFile = outputs[0]
			if c := tool.AsC(); c != nil {
				if !c.LinkOutput.Empty() {
					t.LinkOutputFile = domain.ApplyPatternToLinkerAsOutputFile(
						settings, t, tool, c.LinkOutput)
				}
				if !c.DependOutput.Empty() {
					t.DependencyOutputFile = domain.ApplyPatternToLinkerAsOutputFile(
						settings, t, tool, c.DependOutput)
				}
			}
		default:
			outDir, _ := domain.GetTargetSubstitution(settings, t, domain.SubstitutionTargetOutDir)
			t.DependencyOutputFile = domain.NewOutputFile(
				outDir + "/" + t.Label.Name + ".stamp")
		}

		if t.UsesSwift() {
			if t.Swift == nil {
				t.Swift = &domain.SwiftValues{ModuleName: t.Label.Name}
			}
			if t.Swift.ModuleName == "" {
				t.Swift.ModuleName = t.Label.Name
			}
			if t.Swift.ModuleOutputFile.IsZero() {
				outDir, _ := domain.GetTargetSubstitution(settings, t, domain.SubstitutionTargetOutDir)
				t.Swift.ModuleOutputFile = domain.NewOutputFile(
					outDir + "/" + t.Swift.ModuleName + ".swiftmodule")
			}
		}
	}
	return nil
}
