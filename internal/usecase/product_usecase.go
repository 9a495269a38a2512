package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"app/internal/domain/model"
	"app/internal/infra/storage"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// 画像ファイルの保存・削除の約束（実体はinfra/storage）
type ImageStore interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(imageURL string) error
}

// ProductUsecase はカタログ・画像・レビュー・CSV取込です。
type ProductUsecase struct {
	productRepo repo.ProductRepository
	imageRepo   repo.ProductImageRepository
	ratingRepo  repo.RatingRepository
	images      ImageStore
	logger      zerolog.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	imageRepo repo.ProductImageRepository,
	ratingRepo repo.RatingRepository,
	images ImageStore,
	logger zerolog.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		ratingRepo:  ratingRepo,
		images:      images,
		logger:      logger,
	}
}

type ProductResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Stock         int64           `json:"stock"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	SubCategory   string          `json:"sub_category"`
	Images        []string        `json:"images"`
	PrimaryImage  string          `json:"primary_image"`
	AverageRating float64         `json:"average_rating"`
}

// GetProduct は商品詳細（画像・平均評価つき）。
func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (ProductResponse, error) {
	if productID <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toProductResponse(ctx, p), nil
}

func (u *ProductUsecase) ListAll(ctx context.Context) ([]ProductResponse, error) {
	ps, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.toProductResponses(ctx, ps), nil
}

// カテゴリは大文字小文字を区別しない
func (u *ProductUsecase) ListByCategory(ctx context.Context, category string) ([]ProductResponse, error) {
	ps, err := u.productRepo.ListByCategory(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.toProductResponses(ctx, ps), nil
}

func (u *ProductUsecase) ListByCategoryAndSub(ctx context.Context, category, subCategory string) ([]ProductResponse, error) {
	ps, err := u.productRepo.ListByCategoryAndSub(ctx, strings.TrimSpace(category), strings.TrimSpace(subCategory))
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.toProductResponses(ctx, ps), nil
}

// 名前・カテゴリ・サブカテゴリの部分一致検索
func (u *ProductUsecase) Search(ctx context.Context, query string) ([]ProductResponse, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []ProductResponse{}, nil
	}

	ps, err := u.productRepo.Search(ctx, q)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.toProductResponses(ctx, ps), nil
}

type ListProductsInput struct {
	Category string
	Page     int
	Limit    int
	Sort     string // price_asc | price_desc | rating_asc | rating_desc
}

type ProductPageOutput struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ListPaged はページング一覧。並びは取得したページ内で平均評価つきで並べ替える。
// 既定はrating_desc。
func (u *ProductUsecase) ListPaged(ctx context.Context, in ListProductsInput) (ProductPageOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 12
	}

	sortKey := in.Sort
	switch sortKey {
	case "price_asc", "price_desc", "rating_asc", "rating_desc":
	case "":
		sortKey = "rating_desc"
	default:
		return ProductPageOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	ps, total, err := u.productRepo.ListPaged(ctx, repo.ProductPageQuery{
		Category: strings.TrimSpace(in.Category),
		Page:     in.Page,
		Limit:    in.Limit,
	})
	if err != nil {
		return ProductPageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := u.toProductResponses(ctx, ps)
	sortProducts(items, sortKey)

	return ProductPageOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func sortProducts(items []ProductResponse, key string) {
	sort.SliceStable(items, func(i, j int) bool {
		switch key {
		case "price_asc":
			return items[i].Price.LessThan(items[j].Price)
		case "price_desc":
			return items[j].Price.LessThan(items[i].Price)
		case "rating_asc":
			return items[i].AverageRating < items[j].AverageRating
		default: // rating_desc
			return items[j].AverageRating < items[i].AverageRating
		}
	})
}

type CategoryGroup struct {
	Category      string   `json:"category"`
	SubCategories []string `json:"sub_categories"`
}

// Categories はカテゴリ→サブカテゴリの一覧。
func (u *ProductUsecase) Categories(ctx context.Context) ([]CategoryGroup, error) {
	pairs, err := u.productRepo.ListCategoryPairs(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	order := []string{}
	grouped := map[string][]string{}
	seen := map[string]map[string]bool{}
	for _, pr := range pairs {
		if pr.Category == "" {
			continue
		}
		if _, ok := grouped[pr.Category]; !ok {
			order = append(order, pr.Category)
			grouped[pr.Category] = []string{}
			seen[pr.Category] = map[string]bool{}
		}
		if pr.SubCategory != "" && !seen[pr.Category][pr.SubCategory] {
			grouped[pr.Category] = append(grouped[pr.Category], pr.SubCategory)
			seen[pr.Category][pr.SubCategory] = true
		}
	}

	out := make([]CategoryGroup, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryGroup{Category: c, SubCategories: grouped[c]})
	}
	return out, nil
}

const relatedProductsLimit = 4

// Related は同一カテゴリの商品（自分を除く）を平均評価の高い順で返す。
func (u *ProductUsecase) Related(ctx context.Context, productID int64) ([]ProductResponse, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	sameCategory, err := u.productRepo.ListByCategory(ctx, p.Category)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var others []model.Product
	for _, sp := range sameCategory {
		if sp.ID != p.ID {
			others = append(others, sp)
		}
	}

	items := u.toProductResponses(ctx, others)
	sortProducts(items, "rating_desc")
	if len(items) > relatedProductsLimit {
		items = items[:relatedProductsLimit]
	}
	return items, nil
}

// ---- 管理側（作成・更新・削除・CSV取込） ----

// handlerがmultipartから開いて渡す
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	SKU         string
	Category    string
	SubCategory string
	Images      []ImageUpload
}

// Add は商品作成。最初の画像が主画像になる。
func (u *ProductUsecase) Add(ctx context.Context, in ProductInput) (ProductResponse, error) {
	if err := validateProductInput(in); err != nil {
		return ProductResponse{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		Category:    in.Category,
		SubCategory: in.SubCategory,
	})
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if len(in.Images) > 0 {
		images, err := u.saveImages(p.ID, in.Images)
		if err != nil {
			return ProductResponse{}, err
		}
		if err := u.imageRepo.CreateBulk(ctx, images); err != nil {
			return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.toProductResponse(ctx, p), nil
}

// Update は商品更新。新しい画像が来たときだけ既存画像を入れ替える。
// 旧ファイルの削除はDB反映後（先に消すと失敗時に画像だけ失う）。
func (u *ProductUsecase) Update(ctx context.Context, productID int64, in ProductInput) (ProductResponse, error) {
	if productID <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return ProductResponse{}, err
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated := model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		Category:    in.Category,
		SubCategory: in.SubCategory,
	}
	if err := u.productRepo.Update(ctx, updated); err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if len(in.Images) > 0 {
		old, err := u.imageRepo.ListByProductID(ctx, productID)
		if err != nil {
			return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		images, err := u.saveImages(productID, in.Images)
		if err != nil {
			return ProductResponse{}, err
		}
		if err := u.imageRepo.ReplaceForProduct(ctx, productID, images); err != nil {
			return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for _, img := range old {
			if err := u.images.Remove(img.ImageURL); err != nil {
				u.logger.Warn().Err(err).Str("image_url", img.ImageURL).Msg("old image remove failed")
			}
		}
	}

	return u.toProductResponse(ctx, updated), nil
}

// Delete は商品削除。DB側（画像・評価の行ごと）を先に消し、ファイルは後で消す。
func (u *ProductUsecase) Delete(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	images, err := u.imageRepo.ListByProductID(ctx, productID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.productRepo.Delete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, img := range images {
		if err := u.images.Remove(img.ImageURL); err != nil {
			u.logger.Warn().Err(err).Str("image_url", img.ImageURL).Msg("image remove failed")
		}
	}
	return nil
}

type BulkUploadOutput struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// CSVの列: name, description, price, stock, sku, category, sub_category, image_urls
const csvMinColumns = 7

// BulkUploadCSV はCSV一括取込。
// 列が足りない行・数値が壊れている行は警告ログだけ残して読み飛ばす。
// 価格・在庫は "$19.99" や "1,000" のような表記から数字だけ拾って解釈する。
func (u *ProductUsecase) BulkUploadCSV(ctx context.Context, r io.Reader) (BulkUploadOutput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var out BulkUploadOutput
	var products []model.Product
	var imageURLs [][]string

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return BulkUploadOutput{}, NewHTTPError(http.StatusBadRequest, "invalid csv")
		}
		line++

		//ヘッダ行は読み飛ばす
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}

		if len(record) < csvMinColumns {
			u.logger.Warn().Int("line", line).Msg("csv row skipped: too few columns")
			out.Skipped++
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			u.logger.Warn().Int("line", line).Msg("csv row skipped: empty name")
			out.Skipped++
			continue
		}

		price, ok := parseDecimalLoose(record[2])
		if !ok {
			u.logger.Warn().Int("line", line).Str("value", record[2]).Msg("csv row skipped: bad price")
			out.Skipped++
			continue
		}

		stock, ok := parseIntLoose(record[3])
		if !ok {
			u.logger.Warn().Int("line", line).Str("value", record[3]).Msg("csv row skipped: bad stock")
			out.Skipped++
			continue
		}

		products = append(products, model.Product{
			Name:        name,
			Description: strings.TrimSpace(record[1]),
			Price:       price,
			Stock:       stock,
			SKU:         strings.TrimSpace(record[4]),
			Category:    strings.TrimSpace(record[5]),
			SubCategory: strings.TrimSpace(record[6]),
		})

		//URL列が引用符なしのカンマで複数列に割れていても全部拾う
		var urls []string
		if len(record) > csvMinColumns {
			urls = splitImageURLs(strings.Join(record[csvMinColumns:], ","))
		}
		imageURLs = append(imageURLs, urls)
	}

	if len(products) == 0 {
		return out, nil
	}

	created, err := u.productRepo.CreateBulk(ctx, products)
	if err != nil {
		return BulkUploadOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var images []model.ProductImage
	for i, p := range created {
		for j, url := range imageURLs[i] {
			images = append(images, model.ProductImage{
				ProductID: p.ID,
				ImageURL:  url,
				IsPrimary: j == 0,
			})
		}
	}
	if len(images) > 0 {
		if err := u.imageRepo.CreateBulk(ctx, images); err != nil {
			return BulkUploadOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	out.Imported = len(created)
	return out, nil
}

// ---- レビュー ----

type RatingInput struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

type RatingsOutput struct {
	Ratings []model.ProductRating `json:"ratings"`
	Average float64               `json:"average"`
}

// AddRating はレビュー投稿。1ユーザー1商品1件まで。
func (u *ProductUsecase) AddRating(ctx context.Context, productID, userID int64, in RatingInput) (model.ProductRating, error) {
	if userID <= 0 {
		return model.ProductRating{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Stars < 1 || in.Stars > 5 {
		return model.ProductRating{}, NewHTTPError(http.StatusBadRequest, "stars must be 1..5")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductRating{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return model.ProductRating{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	exists, err := u.ratingRepo.ExistsByProductAndUser(ctx, productID, userID)
	if err != nil {
		return model.ProductRating{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.ProductRating{}, NewHTTPError(http.StatusConflict, "already rated")
	}

	rating, err := u.ratingRepo.Create(ctx, model.ProductRating{
		ProductID: productID,
		UserID:    userID,
		Stars:     in.Stars,
		Comment:   in.Comment,
	})
	if err != nil {
		return model.ProductRating{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rating, nil
}

func (u *ProductUsecase) ListRatings(ctx context.Context, productID int64) (RatingsOutput, error) {
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return RatingsOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return RatingsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ratings, err := u.ratingRepo.ListByProductID(ctx, productID)
	if err != nil {
		return RatingsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	avg, err := u.ratingRepo.AverageByProductID(ctx, productID)
	if err != nil {
		return RatingsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if ratings == nil {
		ratings = []model.ProductRating{}
	}
	return RatingsOutput{Ratings: ratings, Average: avg}, nil
}

// ---- 内部ヘルパ ----

func (u *ProductUsecase) saveImages(productID int64, uploads []ImageUpload) ([]model.ProductImage, error) {
	images := make([]model.ProductImage, 0, len(uploads))
	for i, up := range uploads {
		url, err := u.images.Save(up.Filename, up.Reader)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "image save failed")
		}
		images = append(images, model.ProductImage{
			ProductID: productID,
			ImageURL:  url,
			IsPrimary: i == 0, // 最初の1枚を主画像にする
		})
	}
	return images, nil
}

func (u *ProductUsecase) toProductResponses(ctx context.Context, ps []model.Product) []ProductResponse {
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}

	averages := map[int64]float64{}
	if len(ids) > 0 {
		if m, err := u.ratingRepo.AverageByProductIDs(ctx, ids); err == nil {
			averages = m
		}
	}

	out := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		resp := u.toProductResponse(ctx, p)
		resp.AverageRating = averages[p.ID]
		out = append(out, resp)
	}
	return out
}

func (u *ProductUsecase) toProductResponse(ctx context.Context, p model.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		SKU:         p.SKU,
		Category:    p.Category,
		SubCategory: p.SubCategory,
	}

	images, err := u.imageRepo.ListByProductID(ctx, p.ID)
	if err == nil {
		for _, img := range images {
			resp.Images = append(resp.Images, img.ImageURL)
			if img.IsPrimary {
				resp.PrimaryImage = img.ImageURL
			}
		}
	}
	//画像が1枚も無いときはプレースホルダ
	if len(resp.Images) == 0 {
		resp.Images = []string{storage.DefaultImageURL}
		resp.PrimaryImage = storage.DefaultImageURL
	}

	if avg, err := u.ratingRepo.AverageByProductID(ctx, p.ID); err == nil {
		resp.AverageRating = avg
	}
	return resp
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

// "$19.99" や " 1,299.00 " から数字と小数点だけ拾う
func sanitizeNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseDecimalLoose(s string) (decimal.Decimal, bool) {
	cleaned := sanitizeNumeric(s)
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseIntLoose(s string) (int64, bool) {
	cleaned := sanitizeNumeric(s)
	if cleaned == "" {
		return 0, false
	}
	//"10.0" のような表記も整数へ丸める
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		cleaned = cleaned[:i]
	}
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitImageURLs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var urls []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			urls = append(urls, f)
		}
	}
	return urls
}
