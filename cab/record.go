package cab

import "encoding/binary"

// Fixed sizes, in bytes, of the packed records this package reads and
// writes. None of these may be derived from Go struct layout: struct field
// alignment is not a packed, portable on-disk format.
const (
	cfHeaderSize = 36
	cfFolderSize = 8
	cfFileSize   = 16
	cfDataSize   = 8
)

const (
	cabSignature = "MSCF"

	versionMinor = 3
	versionMajor = 1
)

// compressType is the CFFOLDER.typeCompress indicator.
type compressType uint16

const (
	compressNone  compressType = 0
	compressMSZip compressType = 1
)

const attribArchive = 0x20

// cfHeader mirrors the CFHEADER record, see [MS-CAB] section 2.2.
type cfHeader struct {
	CBCabinet uint32 // size of this cabinet file in bytes
	COFFFiles uint32 // offset of the first CFFILE entry
	CFolders  uint16 // number of CFFOLDER entries in this cabinet
	CFiles    uint16 // number of CFFILE entries in this cabinet
}

func (h cfHeader) marshal() []byte {
	b := make([]byte, cfHeaderSize)
	copy(b[0:4], cabSignature)
	// reserved1 at [4:8] stays zero.
	binary.LittleEndian.PutUint32(b[8:12], h.CBCabinet)
	// reserved2 at [12:16] stays zero.
	binary.LittleEndian.PutUint32(b[16:20], h.COFFFiles)
	// reserved3 at [20:24] stays zero.
	b[24] = versionMinor
	b[25] = versionMajor
	binary.LittleEndian.PutUint16(b[26:28], h.CFolders)
	binary.LittleEndian.PutUint16(b[28:30], h.CFiles)
	// flags, setID, iCabinet at [30:36] stay zero.
	return b
}

func unmarshalCFHeader(b []byte) (cfHeader, error) {
	if len(b) < cfHeaderSize {
		return cfHeader{}, ErrBadSignature
	}
	if string(b[0:4]) != cabSignature {
		return cfHeader{}, ErrBadSignature
	}
	return cfHeader{
		CBCabinet: binary.LittleEndian.Uint32(b[8:12]),
		COFFFiles: binary.LittleEndian.Uint32(b[16:20]),
		CFolders:  binary.LittleEndian.Uint16(b[26:28]),
		CFiles:    binary.LittleEndian.Uint16(b[28:30]),
	}, nil
}

// cfFolder mirrors the CFFOLDER record.
type cfFolder struct {
	COFFCabStart uint32
	CCFData      uint16
	TypeCompress compressType
}

func (f cfFolder) marshal() []byte {
	b := make([]byte, cfFolderSize)
	binary.LittleEndian.PutUint32(b[0:4], f.COFFCabStart)
	binary.LittleEndian.PutUint16(b[4:6], f.CCFData)
	binary.LittleEndian.PutUint16(b[6:8], uint16(f.TypeCompress))
	return b
}

func unmarshalCFFolder(b []byte) (cfFolder, error) {
	if len(b) < cfFolderSize {
		return cfFolder{}, ErrBadSignature
	}
	return cfFolder{
		COFFCabStart: binary.LittleEndian.Uint32(b[0:4]),
		CCFData:      binary.LittleEndian.Uint16(b[4:6]),
		TypeCompress: compressType(binary.LittleEndian.Uint16(b[6:8])),
	}, nil
}

// cfFile mirrors the CFFILE record, not including the trailing filename.
type cfFile struct {
	CBFile  uint32
	IFolder uint16
	Date    uint16
	Time    uint16
	Attribs uint16
}

func (f cfFile) marshal() []byte {
	b := make([]byte, cfFileSize)
	binary.LittleEndian.PutUint32(b[0:4], f.CBFile)
	// uoffFolderStart at [4:8] stays zero: this package never emits more
	// than one file per folder.
	binary.LittleEndian.PutUint16(b[8:10], f.IFolder)
	binary.LittleEndian.PutUint16(b[10:12], f.Date)
	binary.LittleEndian.PutUint16(b[12:14], f.Time)
	binary.LittleEndian.PutUint16(b[14:16], f.Attribs)
	return b
}

func unmarshalCFFile(b []byte) (cfFile, uint32, error) {
	if len(b) < cfFileSize {
		return cfFile{}, 0, ErrBadSignature
	}
	return cfFile{
		CBFile:  binary.LittleEndian.Uint32(b[0:4]),
		IFolder: binary.LittleEndian.Uint16(b[8:10]),
		Date:    binary.LittleEndian.Uint16(b[10:12]),
		Time:    binary.LittleEndian.Uint16(b[12:14]),
		Attribs: binary.LittleEndian.Uint16(b[14:16]),
	}, binary.LittleEndian.Uint32(b[4:8]), nil
}

// cfData mirrors the CFDATA record, not including the trailing payload.
type cfData struct {
	CBData   uint16
	CBUncomp uint16
}

func (d cfData) marshal() []byte {
	b := make([]byte, cfDataSize)
	// csum at [0:4] stays zero: this package writes no CFDATA checksums
	// and relies on the DEFLATE integrity check, per the format's own
	// documented allowance for a zero checksum.
	binary.LittleEndian.PutUint16(b[4:6], d.CBData)
	binary.LittleEndian.PutUint16(b[6:8], d.CBUncomp)
	return b
}

func unmarshalCFData(b []byte) (cfData, error) {
	if len(b) < cfDataSize {
		return cfData{}, ErrBadSignature
	}
	return cfData{
		CBData:   binary.LittleEndian.Uint16(b[4:6]),
		CBUncomp: binary.LittleEndian.Uint16(b[6:8]),
	}, nil
}

// dosDateTime encodes t, in local time, as the MS-DOS date/time pair used by
// CFFILE.date and CFFILE.time. Years before 1980 are not representable; the
// (year-1980) subtraction wraps in the unsigned field rather than being
// clamped or rejected, matching the reference implementation.
func dosDateTime(t localTime) (date, time uint16) {
	date = uint16(t.year-1980)<<9 | uint16(t.month)<<5 | uint16(t.day)
	time = uint16(t.hour)<<11 | uint16(t.minute)<<5 | uint16(t.second/2)
	return date, time
}

// dosDateTimeToLocal decodes a CFFILE date/time pair back into its civil
// calendar components, for the read-back path.
func dosDateTimeToLocal(date, dtime uint16) localTime {
	return localTime{
		year:   int(date>>9) + 1980,
		month:  int(date>>5) & 0xf,
		day:    int(date) & 0x1f,
		hour:   int(dtime >> 11),
		minute: int(dtime>>5) & 0x3f,
		second: int(dtime&0x1f) * 2,
	}
}

// localTime is the civil calendar decomposition used by CFFILE's date/time
// fields: year, month (1-12), day (1-31), hour, minute, second.
type localTime struct {
	year, month, day     int
	hour, minute, second int
}
