// Package cab provides a minimal writer, and a matching read-back reader,
// for Microsoft Cabinet files containing a single MS-ZIP-compressed file in
// a single folder.
//
// Normative reference for the container format is [MS-CAB].
//
// [MS-CAB]: http://download.microsoft.com/download/4/d/a/4da14f27-b4ef-4170-a6e6-5b1ef85b1baa/[ms-cab].pdf
package cab

import (
	"errors"
	"fmt"
)

// errCab is the base error all package-level sentinel errors wrap.
var errCab = errors.New("cab")

var (
	// ErrBadFilename indicates the source path has no file-name component,
	// or that component is not valid UTF-8 text.
	ErrBadFilename = fmt.Errorf("%w: bad filename", errCab)

	// ErrTooLarge indicates the input is too large to represent in the
	// format's 32-bit size and offset fields.
	ErrTooLarge = fmt.Errorf("%w: input too large for a single cabinet", errCab)

	// ErrBadSignature indicates a cabinet being read does not start with
	// the "MSCF" signature, or a record could not be parsed.
	ErrBadSignature = fmt.Errorf("%w: bad cabinet signature", errCab)

	// ErrUnsupportedLayout indicates a cabinet being read has more than
	// one folder or file, or uses a compression type other than None or
	// MS-ZIP. This reader only supports the shape this package's own
	// writer produces.
	ErrUnsupportedLayout = fmt.Errorf("%w: unsupported cabinet layout", errCab)
)
