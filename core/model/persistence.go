package model

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// SaveJSON は v をインデント付きJSONとして filename に保存する。
// 同じディレクトリの一時ファイルに書き込んでから rename するため、
// 途中で失敗しても既存のファイルは壊れず、不完全なファイルも残らない。
//
// 使用例:
//
//	err := model.SaveJSON(artifact, "salary_prediction_model.json")
func SaveJSON(v interface{}, filename string) error {
	return WriteFileAtomic(filename, func(w io.Writer) error {
		return SaveJSONToWriter(v, w)
	})
}

// LoadJSON は filename から v にJSONを読み込む
func LoadJSON(v interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return LoadJSONFromReader(v, file)
}

// SaveJSONToWriter は v を w に書き出す
func SaveJSONToWriter(v interface{}, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadJSONFromReader は r から v を読み込む。未知のフィールドは拒否する。
func LoadJSONFromReader(v interface{}, r io.Reader) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}

// WriteFileAtomic は write の出力を filename に原子的に配置する
func WriteFileAtomic(filename string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err = os.Rename(tmpName, filename); err != nil {
		return errors.Wrapf(err, "failed to move artifact into %s", filename)
	}
	return nil
}
