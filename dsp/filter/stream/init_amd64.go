//go:build amd64 && !purego

package stream

import (
	_ "github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/amd64/sse2" // register SSE2 backend
	_ "github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/generic"    // register generic backend
	_ "github.com/onewordstudios/audiodsp/dsp/filter/stream/internal/arch/registry"   // initialize backend registry
)
