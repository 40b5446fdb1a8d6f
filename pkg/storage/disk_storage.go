package storage

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matst80/kitchen-catalog/pkg/types"
)

const catalogFile = "catalog.json.gz"

// DiskStorage keeps a gzipped JSON snapshot of the last good catalog.
type DiskStorage struct {
	RootFolder string
}

func NewDiskStorage(rootFolder string) *DiskStorage {
	return &DiskStorage{RootFolder: rootFolder}
}

func (d *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(d.RootFolder, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

func (d *DiskStorage) Name() string {
	return "disk"
}

func (d *DiskStorage) Items(ctx context.Context) ([]types.CatalogItem, error) {
	items := make([]types.CatalogItem, 0)
	if err := d.LoadGzippedJson(&items, catalogFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return items, nil
}

func (d *DiskStorage) SaveItems(items []types.CatalogItem) error {
	return d.SaveGzippedJson(items, catalogFile)
}

func (d *DiskStorage) SaveGzippedJson(data any, filename string) error {
	if err := os.MkdirAll(d.RootFolder, 0o755); err != nil {
		return err
	}
	fileName, tmpFileName := d.GetFileName(filename)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	zipWriter := gzip.NewWriter(file)
	err = sonic.ConfigDefault.NewEncoder(zipWriter).Encode(data)
	if closeErr := zipWriter.Close(); err == nil {
		err = closeErr
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpFileName)
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadGzippedJson(data any, filename string) error {
	name, _ := d.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = sonic.ConfigDefault.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
