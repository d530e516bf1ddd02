//go:build arm64 && !purego

package stream

import (
	_ "github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/arm64/neon" // register NEON backend
	_ "github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/generic"    // register generic backend
	_ "github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"   // initialize backend registry
)
