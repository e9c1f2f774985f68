package recognize

import "regexp"

// gccNamePattern matches cc, c++, gcc/g++/gfortran, and their
// version-suffixed or target-prefixed spellings, e.g. x86_64-linux-gnu-gcc-12.
var gccNamePattern = regexp.MustCompile(`^(cc|c\+\+|cxx|CC|([A-Za-z0-9_]+-)?[mg](cc|\+\+|fortran)(-[0-9]+(\.[0-9]+){0,2})?)$`)

var clangNamePattern = regexp.MustCompile(`^([A-Za-z0-9_]+-)?(clang(\+\+)?|flang(-new)?)(-[0-9]+(\.[0-9]+){0,2})?$`)

var nvccNamePattern = regexp.MustCompile(`^nvcc$`)

var intelFortranNamePattern = regexp.MustCompile(`^(ifort|ifx)$`)

var crayNamePattern = regexp.MustCompile(`^(cc|CC|ftn)$`)

// NewGCC returns the GCC-family recognizer.
func NewGCC() Recognizer {
	return compilerFamily{label: "gcc", namePattern: gccNamePattern, grammar: GCCGrammar}
}

// NewClang returns the Clang/Flang-family recognizer.
func NewClang() Recognizer {
	return compilerFamily{label: "clang", namePattern: clangNamePattern, grammar: ClangGrammar}
}

// NewNVCC returns the NVIDIA CUDA compiler recognizer.
func NewNVCC() Recognizer {
	return compilerFamily{label: "nvcc", namePattern: nvccNamePattern, grammar: NVCCGrammar}
}

// NewIntelFortran returns the Intel Fortran compiler recognizer.
func NewIntelFortran() Recognizer {
	return compilerFamily{label: "intel-fortran", namePattern: intelFortranNamePattern, grammar: IntelFortranGrammar}
}

// NewCray returns the Cray compiler-wrapper recognizer (cc/CC/ftn, used on
// Cray systems to front a vendor compiler selected by PrgEnv modules).
func NewCray() Recognizer {
	return compilerFamily{label: "cray", namePattern: crayNamePattern, grammar: CrayGrammar}
}
