package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 商品画像の保存先が無いときのデフォルト
const DefaultImageURL = "/uploads/default-product.png"

// アップロード画像をローカルディスクに保存し、URLパスで返す。
type ImageStore struct {
	dir string // 保存先ディレクトリ
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

// 保存してURLパス（/uploads/xxx）を返す
func (s *ImageStore) Save(filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	//衝突しない名前にする
	name := uuid.NewString() + "_" + filepath.Base(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing file: %w", err)
	}

	return "/uploads/" + name, nil
}

// URLパスからファイルを消す。
// DB削除のcommit後に呼ぶこと（ロールバック時にファイルだけ消えるのを防ぐ）。
// デフォルト画像と外部URLは対象外。
func (s *ImageStore) Remove(imageURL string) error {
	if imageURL == "" || imageURL == DefaultImageURL {
		return nil
	}
	if !strings.HasPrefix(imageURL, "/uploads/") {
		return nil
	}

	path := filepath.Join(s.dir, strings.TrimPrefix(imageURL, "/uploads/"))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
