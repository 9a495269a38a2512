package usecase

import (
	"context"
	"io"
	"strings"
	"testing"

	"app/internal/domain/model"
	"app/internal/infra/storage"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProdProductRepoMock) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	args := m.Called(ctx, category)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProdProductRepoMock) ListByCategoryAndSub(ctx context.Context, category, subCategory string) ([]model.Product, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdProductRepoMock) Search(ctx context.Context, query string) ([]model.Product, error) {
	args := m.Called(ctx, query)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProdProductRepoMock) ListPaged(ctx context.Context, q repo.ProductPageQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) ListCategoryPairs(ctx context.Context) ([]repo.CategoryPair, error) {
	args := m.Called(ctx)
	pairs, _ := args.Get(0).([]repo.CategoryPair)
	return pairs, args.Error(1)
}

func (m *ProdProductRepoMock) ListLowStock(ctx context.Context, threshold int64) ([]model.Product, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) CreateBulk(ctx context.Context, ps []model.Product) ([]model.Product, error) {
	args := m.Called(ctx, ps)
	created, _ := args.Get(0).([]model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProdProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProdImageRepoMock struct{ mock.Mock }

func (m *ProdImageRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	args := m.Called(ctx, productID)
	images, _ := args.Get(0).([]model.ProductImage)
	return images, args.Error(1)
}

func (m *ProdImageRepoMock) CreateBulk(ctx context.Context, images []model.ProductImage) error {
	args := m.Called(ctx, images)
	return args.Error(0)
}

func (m *ProdImageRepoMock) ReplaceForProduct(ctx context.Context, productID int64, images []model.ProductImage) error {
	args := m.Called(ctx, productID, images)
	return args.Error(0)
}

type ProdRatingRepoMock struct{ mock.Mock }

func (m *ProdRatingRepoMock) Create(ctx context.Context, rating model.ProductRating) (model.ProductRating, error) {
	args := m.Called(ctx, rating)
	created, _ := args.Get(0).(model.ProductRating)
	return created, args.Error(1)
}

func (m *ProdRatingRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductRating, error) {
	args := m.Called(ctx, productID)
	ratings, _ := args.Get(0).([]model.ProductRating)
	return ratings, args.Error(1)
}

func (m *ProdRatingRepoMock) ExistsByProductAndUser(ctx context.Context, productID, userID int64) (bool, error) {
	args := m.Called(ctx, productID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ProdRatingRepoMock) AverageByProductID(ctx context.Context, productID int64) (float64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *ProdRatingRepoMock) AverageByProductIDs(ctx context.Context, productIDs []int64) (map[int64]float64, error) {
	args := m.Called(ctx, productIDs)
	avgs, _ := args.Get(0).(map[int64]float64)
	return avgs, args.Error(1)
}

type ImageStoreMock struct{ mock.Mock }

func (m *ImageStoreMock) Save(filename string, r io.Reader) (string, error) {
	args := m.Called(filename, r)
	return args.String(0), args.Error(1)
}

func (m *ImageStoreMock) Remove(imageURL string) error {
	args := m.Called(imageURL)
	return args.Error(0)
}

func newProductUsecaseForTest(pRepo *ProdProductRepoMock, iRepo *ProdImageRepoMock, rRepo *ProdRatingRepoMock, store *ImageStoreMock) *ProductUsecase {
	return NewProductUsecase(pRepo, iRepo, rRepo, store, zerolog.Nop())
}

// =====================
// GetProduct
// =====================

// 画像が1枚も無いときはプレースホルダを返す
func TestProductUsecase_GetProduct_PlaceholderWhenNoImages(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdImageRepoMock)
	rRepo := new(ProdRatingRepoMock)
	uc := newProductUsecaseForTest(pRepo, iRepo, rRepo, new(ImageStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Mug"}, nil)
	iRepo.On("ListByProductID", mock.Anything, int64(1)).Return([]model.ProductImage{}, nil)
	rRepo.On("AverageByProductID", mock.Anything, int64(1)).Return(float64(0), nil)

	out, err := uc.GetProduct(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{storage.DefaultImageURL}, out.Images)
	assert.Equal(t, storage.DefaultImageURL, out.PrimaryImage)
}

func TestProductUsecase_GetProduct_NotFound(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUsecaseForTest(pRepo, new(ProdImageRepoMock), new(ProdRatingRepoMock), new(ImageStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProduct(context.Background(), 99)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

// =====================
// CSV取込
// =====================

// 列不足・数値破損の行は読み飛ばし、"$19.99"のような表記は数字だけ拾う
func TestProductUsecase_BulkUploadCSV_SkipsBadRowsAndParsesLoosely(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdImageRepoMock)
	rRepo := new(ProdRatingRepoMock)
	uc := newProductUsecaseForTest(pRepo, iRepo, rRepo, new(ImageStoreMock))

	csvData := strings.Join([]string{
		"name,description,price,stock,sku,category,sub_category,image_urls",
		`Coffee Mug,Ceramic mug,$19.99,"1,000",SKU1,Kitchen,Mugs,http://img/a.png;http://img/b.png`,
		"Short Row,only two columns",
		"Bad Price,desc,abc,5,SKU2,Misc,Other",
	}, "\n")

	pRepo.On("CreateBulk", mock.Anything, mock.MatchedBy(func(ps []model.Product) bool {
		return len(ps) == 1 &&
			ps[0].Name == "Coffee Mug" &&
			ps[0].Price.Equal(decimal.RequireFromString("19.99")) &&
			ps[0].Stock == 1000
	})).Return([]model.Product{{ID: 100, Name: "Coffee Mug"}}, nil)

	//最初の画像が主画像
	iRepo.On("CreateBulk", mock.Anything, mock.MatchedBy(func(images []model.ProductImage) bool {
		return len(images) == 2 &&
			images[0].ProductID == 100 && images[0].IsPrimary &&
			images[1].ProductID == 100 && !images[1].IsPrimary
	})).Return(nil)

	out, err := uc.BulkUploadCSV(context.Background(), strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, 1, out.Imported)
	assert.Equal(t, 2, out.Skipped)

	pRepo.AssertExpectations(t)
	iRepo.AssertExpectations(t)
}

// 画像URL列が引用符なしのカンマで複数列に割れていても全URLを拾う
func TestProductUsecase_BulkUploadCSV_ImageURLsSplitAcrossColumns(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdImageRepoMock)
	uc := newProductUsecaseForTest(pRepo, iRepo, new(ProdRatingRepoMock), new(ImageStoreMock))

	//image_urlsが引用されておらず、2列目以降にこぼれている
	csvData := strings.Join([]string{
		"name,description,price,stock,sku,category,sub_category,image_urls",
		"Lamp,Desk lamp,25.00,10,SKU9,Home,Lighting,http://img/a.png,http://img/b.png,http://img/c.png",
	}, "\n")

	pRepo.On("CreateBulk", mock.Anything, mock.Anything).
		Return([]model.Product{{ID: 200, Name: "Lamp"}}, nil)
	iRepo.On("CreateBulk", mock.Anything, mock.MatchedBy(func(images []model.ProductImage) bool {
		return len(images) == 3 &&
			images[0].ImageURL == "http://img/a.png" && images[0].IsPrimary &&
			images[1].ImageURL == "http://img/b.png" &&
			images[2].ImageURL == "http://img/c.png"
	})).Return(nil)

	out, err := uc.BulkUploadCSV(context.Background(), strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, 1, out.Imported)

	iRepo.AssertExpectations(t)
}

// 全行スキップならDBに触らない
func TestProductUsecase_BulkUploadCSV_NothingImported(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUsecaseForTest(pRepo, new(ProdImageRepoMock), new(ProdRatingRepoMock), new(ImageStoreMock))

	csvData := "name,description,price,stock,sku,category,sub_category\nBad,desc,xxx,yyy,SKU,Cat,Sub\n"

	out, err := uc.BulkUploadCSV(context.Background(), strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, 0, out.Imported)
	assert.Equal(t, 1, out.Skipped)

	pRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything)
}

func TestParseDecimalLoose(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"$19.99", "19.99", true},
		{" 1,299.00 ", "1299.00", true},
		{"42", "42", true},
		{"abc", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, ok := parseDecimalLoose(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		if c.ok {
			assert.True(t, got.Equal(decimal.RequireFromString(c.want)), "input %q: got %s", c.in, got)
		}
	}
}

func TestParseIntLoose(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"10", 10, true},
		{"10.0", 10, true},
		{"1,000", 1000, true},
		{"n/a", 0, false},
	}

	for _, c := range cases {
		got, ok := parseIntLoose(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

// =====================
// レビュー
// =====================

// 1ユーザー1商品1件まで。2件目は「評価済み」で拒否。
func TestProductUsecase_AddRating_DuplicateRejected(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	rRepo := new(ProdRatingRepoMock)
	uc := newProductUsecaseForTest(pRepo, new(ProdImageRepoMock), rRepo, new(ImageStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1}, nil)
	rRepo.On("ExistsByProductAndUser", mock.Anything, int64(1), int64(2)).Return(true, nil)

	_, err := uc.AddRating(context.Background(), 1, 2, RatingInput{Stars: 4})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
	assert.Equal(t, "already rated", he.Message)

	rRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_AddRating_StarsOutOfRange(t *testing.T) {
	uc := newProductUsecaseForTest(new(ProdProductRepoMock), new(ProdImageRepoMock), new(ProdRatingRepoMock), new(ImageStoreMock))

	for _, stars := range []int{0, 6, -1} {
		_, err := uc.AddRating(context.Background(), 1, 2, RatingInput{Stars: stars})
		he, ok := AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, 400, he.Status, "stars=%d", stars)
	}
}

func TestProductUsecase_AddRating_Success(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	rRepo := new(ProdRatingRepoMock)
	uc := newProductUsecaseForTest(pRepo, new(ProdImageRepoMock), rRepo, new(ImageStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1}, nil)
	rRepo.On("ExistsByProductAndUser", mock.Anything, int64(1), int64(2)).Return(false, nil)
	rRepo.On("Create", mock.Anything, mock.MatchedBy(func(r model.ProductRating) bool {
		return r.ProductID == 1 && r.UserID == 2 && r.Stars == 5
	})).Return(model.ProductRating{ID: 10, ProductID: 1, UserID: 2, Stars: 5}, nil)

	rating, err := uc.AddRating(context.Background(), 1, 2, RatingInput{Stars: 5, Comment: "great"})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), rating.ID)

	rRepo.AssertExpectations(t)
}

// 平均は集計クエリの値をそのまま返す
func TestProductUsecase_ListRatings_ReturnsAverage(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	rRepo := new(ProdRatingRepoMock)
	uc := newProductUsecaseForTest(pRepo, new(ProdImageRepoMock), rRepo, new(ImageStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1}, nil)
	rRepo.On("ListByProductID", mock.Anything, int64(1)).Return([]model.ProductRating{
		{ID: 10, ProductID: 1, UserID: 2, Stars: 4},
	}, nil)
	rRepo.On("AverageByProductID", mock.Anything, int64(1)).Return(4.0, nil)

	out, err := uc.ListRatings(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, out.Ratings, 1)
	assert.Equal(t, 4.0, out.Average)
}

// =====================
// 並べ替え
// =====================

func TestSortProducts(t *testing.T) {
	items := []ProductResponse{
		{ID: 1, Price: decimal.NewFromInt(30), AverageRating: 2.0},
		{ID: 2, Price: decimal.NewFromInt(10), AverageRating: 4.5},
		{ID: 3, Price: decimal.NewFromInt(20), AverageRating: 3.0},
	}

	sortProducts(items, "price_asc")
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, int64(1), items[2].ID)

	sortProducts(items, "rating_desc")
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, int64(1), items[2].ID)

	sortProducts(items, "rating_asc")
	assert.Equal(t, int64(1), items[0].ID)
}
