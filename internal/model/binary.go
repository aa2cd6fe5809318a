package model

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"vibe-trainer/internal/cdf"
	"vibe-trainer/internal/grade"
	"vibe-trainer/internal/poly"
)

// Binary record layout: 4-byte magic, uint16 version, uint8 kind, then a
// kind-specific payload. All multi-byte values are little-endian. Exponent
// triples are stored as int16, coefficients and parameters as float64.
var binaryMagic = [4]byte{'V', 'L', 'U', 'T'}

const binaryVersion uint16 = 1

const (
	codePolyMap  uint8 = 1
	codeCDFMatch uint8 = 2
	codeGrade    uint8 = 3
)

// SaveBinary writes the compact binary form of the record.
func SaveBinary(path string, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)

	if _, err := w.Write(binaryMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, binaryVersion); err != nil {
		return err
	}

	switch rec.Algorithm {
	case KindPolyMap:
		err = writePoly(w, rec.Poly)
	case KindCDFMatch:
		err = writeCDF(w, rec.CDF)
	case KindGrade:
		err = writeGrade(w, rec.Grade)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return w.Flush()
}

// LoadBinary reads a binary record written by SaveBinary.
func LoadBinary(path string) (*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()
	r := bufio.NewReader(file)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if magic != binaryMagic {
		return nil, fmt.Errorf("%s is not a model file (bad magic)", path)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != binaryVersion {
		return nil, fmt.Errorf("unsupported model version %d in %s", version, path)
	}

	var code uint8
	if err := binary.Read(r, binary.LittleEndian, &code); err != nil {
		return nil, err
	}

	rec := &Record{}
	switch code {
	case codePolyMap:
		rec.Algorithm = KindPolyMap
		rec.Poly, err = readPoly(r)
	case codeCDFMatch:
		rec.Algorithm = KindCDFMatch
		rec.CDF, err = readCDF(r)
	case codeGrade:
		rec.Algorithm = KindGrade
		rec.Grade, err = readGrade(r)
	default:
		return nil, fmt.Errorf("unknown algorithm code %d in %s", code, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rec, nil
}

func writePoly(w *bufio.Writer, m *poly.Model) error {
	if err := binary.Write(w, binary.LittleEndian, codePolyMap); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Basis))); err != nil {
		return err
	}
	for _, e := range m.Basis {
		triple := [3]int16{int16(e.A), int16(e.B), int16(e.C)}
		if err := binary.Write(w, binary.LittleEndian, triple); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, m.Coefs)
}

func readPoly(r *bufio.Reader) (*poly.Model, error) {
	var p uint32
	if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
		return nil, err
	}
	m := &poly.Model{
		Basis: make([]poly.Exponent, p),
		Coefs: make([]float64, int(p)*3),
	}
	for i := range m.Basis {
		var triple [3]int16
		if err := binary.Read(r, binary.LittleEndian, &triple); err != nil {
			return nil, err
		}
		m.Basis[i] = poly.Exponent{A: int(triple[0]), B: int(triple[1]), C: int(triple[2])}
	}
	if err := binary.Read(r, binary.LittleEndian, m.Coefs); err != nil {
		return nil, err
	}
	return m, nil
}

func writeCDF(w *bufio.Writer, m *cdf.Model) error {
	if err := binary.Write(w, binary.LittleEndian, codeCDFMatch); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, m.LUT)
}

func readCDF(r *bufio.Reader) (*cdf.Model, error) {
	m := &cdf.Model{}
	if err := binary.Read(r, binary.LittleEndian, &m.LUT); err != nil {
		return nil, err
	}
	return m, nil
}

// gradeFlat lists the grade scalar/vector payload in its fixed binary
// order. The matte lift and grain strength follow as a trailing pair.
func gradeFlat(p *grade.Params) [18]float64 {
	return [18]float64{
		p.AnchorsIn[0], p.AnchorsIn[1], p.AnchorsIn[2],
		p.AnchorsOut[0], p.AnchorsOut[1], p.AnchorsOut[2],
		p.SatScale,
		p.Balance[0], p.Balance[1], p.Balance[2],
		p.WarmTone[0], p.WarmTone[1], p.WarmTone[2],
		p.CoolTone[0], p.CoolTone[1], p.CoolTone[2],
		p.CyanSupp,
		p.Vignette,
	}
}

func writeGrade(w *bufio.Writer, p *grade.Params) error {
	if err := binary.Write(w, binary.LittleEndian, codeGrade); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, gradeFlat(p)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, [2]float64{p.MatteLift, p.Grain})
}

func readGrade(r *bufio.Reader) (*grade.Params, error) {
	var flat [18]float64
	if err := binary.Read(r, binary.LittleEndian, &flat); err != nil {
		return nil, err
	}
	var tail [2]float64
	if err := binary.Read(r, binary.LittleEndian, &tail); err != nil {
		return nil, err
	}
	return &grade.Params{
		AnchorsIn:  [3]float64{flat[0], flat[1], flat[2]},
		AnchorsOut: [3]float64{flat[3], flat[4], flat[5]},
		SatScale:   flat[6],
		Balance:    [3]float64{flat[7], flat[8], flat[9]},
		WarmTone:   [3]float64{flat[10], flat[11], flat[12]},
		CoolTone:   [3]float64{flat[13], flat[14], flat[15]},
		CyanSupp:   flat[16],
		Vignette:   flat[17],
		MatteLift:  tail[0],
		Grain:      tail[1],
	}, nil
}
