package recognize

import "github.com/rizsotto/citrace/internal/grammar"

// compilerBase is shared by every compiler-family grammar (GCC, Clang,
// NVCC, Intel Fortran, Cray): the flags whose meaning does not vary across
// front ends.
var compilerBase = grammar.Table{
	"-c":           {Spelling: "-c", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
	"-S":           {Spelling: "-S", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
	"-E":           {Spelling: "-E", Match: grammar.Exact, Type: grammar.Preprocessor},
	"-M":           {Spelling: "-M", Match: grammar.Exact, Type: grammar.PreprocessorMake},
	"-MM":          {Spelling: "-MM", Match: grammar.Exact, Type: grammar.PreprocessorMake},
	"-MD":          {Spelling: "-MD", Match: grammar.Exact, Type: grammar.PreprocessorMake},
	"-MMD":         {Spelling: "-MMD", Match: grammar.Exact, Type: grammar.PreprocessorMake},
	"--version":    {Spelling: "--version", Match: grammar.Exact, Type: grammar.KindOfOutputInfo},
	"--help":       {Spelling: "--help", Match: grammar.Prefix, Type: grammar.KindOfOutputInfo},
	"-dumpversion": {Spelling: "-dumpversion", Match: grammar.Exact, Type: grammar.KindOfOutputInfo},
	"-o":           {Spelling: "-o", Match: grammar.ExactWithSeparateOpts, Type: grammar.KindOfOutputOutput, Count: 1},
	"-I":           {Spelling: "-I", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.DirectorySearch},
	"-isystem":     {Spelling: "-isystem", Match: grammar.ExactWithSeparateOpts, Type: grammar.DirectorySearch, Count: 1},
	"-iquote":      {Spelling: "-iquote", Match: grammar.ExactWithSeparateOpts, Type: grammar.DirectorySearch, Count: 1},
	"-L":           {Spelling: "-L", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.DirectorySearchLibrary},
	"-l":           {Spelling: "-l", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.LinkerLibrary},
	"-static":      {Spelling: "-static", Match: grammar.Exact, Type: grammar.LinkerLibraryStatic},
	"-Wl,":         {Spelling: "-Wl,", Match: grammar.Prefix, Type: grammar.LinkerOptionsFlag},
	"-shared":      {Spelling: "-shared", Match: grammar.Exact, Type: grammar.Linker},
	"-pthread":     {Spelling: "-pthread", Match: grammar.Exact, Type: grammar.Other},
	"-D":           {Spelling: "-D", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.Other},
	"-U":           {Spelling: "-U", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.Other},
	"-std":         {Spelling: "-std", Match: grammar.ExactWithGluedEqOpt, Type: grammar.Other},
	"-x":           {Spelling: "-x", Match: grammar.ExactWithSeparateOpts, Type: grammar.Other, Count: 1},
	"-f":           {Spelling: "-f", Match: grammar.Prefix, Type: grammar.Other},
	"-W":           {Spelling: "-W", Match: grammar.Prefix, Type: grammar.Other},
	"-m":           {Spelling: "-m", Match: grammar.Prefix, Type: grammar.Other},
	"-g":           {Spelling: "-g", Match: grammar.Prefix, Type: grammar.Other},
	"-O":           {Spelling: "-O", Match: grammar.Prefix, Type: grammar.Other},
}

var clangOnly = grammar.Table{
	"--analyze":     {Spelling: "--analyze", Match: grammar.Exact, Type: grammar.StaticAnalyzer},
	"-fsyntax-only": {Spelling: "-fsyntax-only", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
}

var cudaOnly = grammar.Table{
	"-arch":    {Spelling: "-arch", Match: grammar.ExactWithSeparateOpts, Type: grammar.Other, Count: 1},
	"-gencode": {Spelling: "-gencode", Match: grammar.ExactWithSeparateOpts, Type: grammar.Other, Count: 1},
	"-cuda":    {Spelling: "-cuda", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
}

var fortranOnly = grammar.Table{
	"-module":          {Spelling: "-module", Match: grammar.ExactWithSeparateOpts, Type: grammar.DirectorySearch, Count: 1},
	"-J":               {Spelling: "-J", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.DirectorySearch},
	"-Ep":              {Spelling: "-Ep", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
	"-preprocess-only": {Spelling: "-preprocess-only", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
	"-P":               {Spelling: "-P", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
}

var crayOnly = grammar.Table{
	"-eZ": {Spelling: "-eZ", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
	"-eP": {Spelling: "-eP", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
}

// GCCGrammar is GCC's own flag table.
var GCCGrammar = grammar.Compose(grammar.Common, compilerBase)

// ClangGrammar extends GCC's with Clang/Flang-only flags.
var ClangGrammar = grammar.Compose(grammar.Common, compilerBase, clangOnly, fortranOnly)

// NVCCGrammar extends GCC's with CUDA-only flags.
var NVCCGrammar = grammar.Compose(grammar.Common, compilerBase, cudaOnly)

// IntelFortranGrammar extends GCC's with Fortran-only flags.
var IntelFortranGrammar = grammar.Compose(grammar.Common, compilerBase, fortranOnly)

// CrayGrammar reuses the GCC table; Cray's ftn/cc/CC wrappers accept the
// same GNU-style flags plus their own target-selection options, which are
// passed through as Other and do not affect recognition.
var CrayGrammar = grammar.Compose(grammar.Common, compilerBase, fortranOnly, crayOnly)

// LinkerGrammar is the ld/lld/gold flag table.
var LinkerGrammar = grammar.Compose(grammar.Common, grammar.Table{
	"-o":        {Spelling: "-o", Match: grammar.ExactWithSeparateOpts, Type: grammar.KindOfOutputOutput, Count: 1},
	"-L":        {Spelling: "-L", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.DirectorySearchLinker},
	"-l":        {Spelling: "-l", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.LinkerLibrary},
	"-static":   {Spelling: "-static", Match: grammar.Exact, Type: grammar.LinkerLibraryStatic},
	"-Bstatic":  {Spelling: "-Bstatic", Match: grammar.Exact, Type: grammar.LinkerLibraryStatic},
	"-Bdynamic": {Spelling: "-Bdynamic", Match: grammar.Exact, Type: grammar.Linker},
	"--version": {Spelling: "--version", Match: grammar.Exact, Type: grammar.KindOfOutputInfo},
	"-v":        {Spelling: "-v", Match: grammar.Exact, Type: grammar.KindOfOutputInfo},
	"--help":    {Spelling: "--help", Match: grammar.Prefix, Type: grammar.KindOfOutputInfo},
	"-shared":   {Spelling: "-shared", Match: grammar.Exact, Type: grammar.Linker},
	"-r":        {Spelling: "-r", Match: grammar.Exact, Type: grammar.Linker},
})

// ArGrammar transcribes ToolAr.cc's FLAG_DEFINITION table.
var ArGrammar = grammar.Compose(grammar.Common, grammar.Table{
	"--help":           {Spelling: "--help", Match: grammar.Prefix, Type: grammar.KindOfOutputInfo},
	"--version":        {Spelling: "--version", Match: grammar.Exact, Type: grammar.KindOfOutputInfo},
	"-X32_64":          {Spelling: "-X32_64", Match: grammar.Exact, Type: grammar.Other},
	"--plugin":         {Spelling: "--plugin", Match: grammar.ExactWithGluedOptEitherOr, Type: grammar.Other},
	"--target":         {Spelling: "--target", Match: grammar.ExactWithGluedOptEitherOr, Type: grammar.Other},
	"--output":         {Spelling: "--output", Match: grammar.ExactWithGluedOptEitherOr, Type: grammar.Other},
	"--record-libdeps": {Spelling: "--record-libdeps", Match: grammar.ExactWithGluedOptEitherOr, Type: grammar.Other},
	"--thin":           {Spelling: "--thin", Match: grammar.Exact, Type: grammar.Other},
})
