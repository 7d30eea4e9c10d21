package ninja

import (
	"strings"

	"go.trai.ch/ninjagen/internal/core/domain"
)

// RulePrefixForToolchain returns the prefix applied to every rule name of
// a toolchain so rules from different toolchains cannot collide in the
// root scope. The default toolchain gets no prefix.
func RulePrefixForToolchain(s *domain.Settings) string {
	if s.Default {
		return ""
	}
	return s.ToolchainLabel.Name + "_"
}

// EncodePatternForRule renders a tool template as Ninja rule text:
// placeholders become "${name}" references resolved by Ninja at edge time,
// literal chunks keep their shell formatting with only "$" protected.
func EncodePatternForRule(p domain.SubstitutionPattern) string {
	var sb strings.Builder
	for _, r := range p.Ranges() {
		if r.IsLiteral() {
			sb.WriteString(EscapeString(r.Literal, EscapeNinjaPreformatted))
			continue
		}
		sb.WriteString("${")
		sb.WriteString(r.Subst.NinjaName)
		sb.WriteString("}")
	}
	return sb.String()
}

// windowsPCHObjectExtension returns the object extension of an MSVC-style
// precompiled header compile for the given tool, used both when naming the
// PCH output and when matching it against a compile edge's tool.
func windowsPCHObjectExtension(toolName string) string {
	switch toolName {
	case domain.ToolCc:
		return ".c.obj"
	case domain.ToolCxx:
		return ".cc.obj"
	case domain.ToolObjC:
		return ".m.obj"
	case domain.ToolObjCxx:
		return ".mm.obj"
	}
	return ""
}

// gccPCHOutputExtension is the GCC-style equivalent; .gch files are
// compiler inputs only and never linked.
func gccPCHOutputExtension(toolName string) string {
	switch toolName {
	case domain.ToolCc:
		return ".c.gch"
	case domain.ToolCxx:
		return ".cc.gch"
	case domain.ToolObjC:
		return ".m.gch"
	case domain.ToolObjCxx:
		return ".mm.gch"
	}
	return ""
}

// pchLangForToolType returns the language passed to gcc's -x flag when
// compiling a header for the given tool.
func pchLangForToolType(toolName string) string {
	switch toolName {
	case domain.ToolCc:
		return "c-header"
	case domain.ToolCxx:
		return "c++-header"
	case domain.ToolObjC:
		return "objective-c-header"
	case domain.ToolObjCxx:
		return "objective-c++-header"
	}
	panic("not a valid PCH tool type: " + toolName)
}

// pchOutputFiles computes the precompiled header outputs for one language
// tool of the target.
func pchOutputFiles(s *domain.Settings, t *domain.Target, toolName string, pchType domain.PCHType) []domain.OutputFile {
	var ext string
	switch pchType {
	case domain.PCHMSVC:
		ext = windowsPCHObjectExtension(toolName)
	case domain.PCHGCC:
		ext = gccPCHOutputExtension(toolName)
	case domain.PCHNone:
		panic("cannot compute PCH outputs with no PCH header type")
	}
	if ext == "" {
		return nil
	}
	outDir, _ := domain.GetTargetSubstitution(s, t, domain.SubstitutionTargetOutDir)
	return []domain.OutputFile{
		domain.NewOutputFile(outDir + "/" + t.Label.Name + ".precompile" + ext),
	}
}

// Default linker switches used when the C tool does not configure its own.
const (
	defaultLibSwitch          = "-l"
	defaultLibDirSwitch       = "-L"
	defaultFrameworkSwitch    = "-framework "
	defaultFrameworkDirSwitch = "-F"
	defaultSwiftModuleSwitch  = "-Wl,-add_ast_path,"
)

func libSwitch(c *domain.CTool) string {
	if c != nil && c.LibSwitch != "" {
		return c.LibSwitch
	}
	return defaultLibSwitch
}

func libDirSwitch(c *domain.CTool) string {
	if c != nil && c.LibDirSwitch != "" {
		return c.LibDirSwitch
	}
	return defaultLibDirSwitch
}

func frameworkSwitch(c *domain.CTool) string {
	if c != nil && c.FrameworkSwitch != "" {
		return c.FrameworkSwitch
	}
	return defaultFrameworkSwitch
}

func frameworkDirSwitch(c *domain.CTool) string {
	if c != nil && c.FrameworkDirSwitch != "" {
		return c.FrameworkDirSwitch
	}
	return defaultFrameworkDirSwitch
}

func swiftModuleSwitch(c *domain.CTool) string {
	if c != nil && c.SwiftModuleSwitch != "" {
		return c.SwiftModuleSwitch
	}
	return defaultSwiftModuleSwitch
}
