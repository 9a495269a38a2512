package usecase

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type WishlistRepoMock struct{ mock.Mock }

func (m *WishlistRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wishlist, error) {
	args := m.Called(ctx, userID)
	w, _ := args.Get(0).(model.Wishlist)
	return w, args.Error(1)
}

func (m *WishlistRepoMock) AddProduct(ctx context.Context, wishlistID, productID int64) error {
	args := m.Called(ctx, wishlistID, productID)
	return args.Error(0)
}

func (m *WishlistRepoMock) RemoveProduct(ctx context.Context, wishlistID, productID int64) error {
	args := m.Called(ctx, wishlistID, productID)
	return args.Error(0)
}

func (m *WishlistRepoMock) ListProductIDs(ctx context.Context, wishlistID int64) ([]int64, error) {
	args := m.Called(ctx, wishlistID)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type wishlistFixture struct {
	wishlistRepo *WishlistRepoMock
	productRepo  *ProdProductRepoMock
	imageRepo    *ProdImageRepoMock
	ratingRepo   *ProdRatingRepoMock
	uc           *WishlistUsecase
}

func newWishlistFixture() *wishlistFixture {
	f := &wishlistFixture{
		wishlistRepo: new(WishlistRepoMock),
		productRepo:  new(ProdProductRepoMock),
		imageRepo:    new(ProdImageRepoMock),
		ratingRepo:   new(ProdRatingRepoMock),
	}
	catalog := newProductUsecaseForTest(f.productRepo, f.imageRepo, f.ratingRepo, new(ImageStoreMock))
	f.uc = NewWishlistUsecase(f.wishlistRepo, f.productRepo, catalog)
	return f
}

// =====================
// 追加
// =====================

// 存在しない商品は404で、リストには触らない
func TestWishlistUsecase_Add_ProductNotFound(t *testing.T) {
	f := newWishlistFixture()

	f.productRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := f.uc.Add(context.Background(), 1, 99)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)

	f.wishlistRepo.AssertNotCalled(t, "AddProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistUsecase_Add_Success(t *testing.T) {
	f := newWishlistFixture()

	f.productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Mug"}, nil)
	f.wishlistRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Wishlist{ID: 7, UserID: 1}, nil)
	f.wishlistRepo.On("AddProduct", mock.Anything, int64(7), int64(5)).Return(nil)
	f.wishlistRepo.On("ListProductIDs", mock.Anything, int64(7)).Return([]int64{5}, nil)
	f.imageRepo.On("ListByProductID", mock.Anything, int64(5)).Return([]model.ProductImage{}, nil)
	f.ratingRepo.On("AverageByProductID", mock.Anything, int64(5)).Return(float64(0), nil)
	f.ratingRepo.On("AverageByProductIDs", mock.Anything, []int64{5}).Return(map[int64]float64{}, nil)

	out, err := f.uc.Add(context.Background(), 1, 5)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].ID)

	f.wishlistRepo.AssertExpectations(t)
}

// =====================
// 一覧
// =====================

// 削除済み商品の行は黙って読み飛ばす
func TestWishlistUsecase_Get_SkipsDeletedProducts(t *testing.T) {
	f := newWishlistFixture()

	f.wishlistRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Wishlist{ID: 7, UserID: 1}, nil)
	f.wishlistRepo.On("ListProductIDs", mock.Anything, int64(7)).Return([]int64{5, 6}, nil)
	f.productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Mug"}, nil)
	f.productRepo.On("FindByID", mock.Anything, int64(6)).Return(model.Product{}, repo.ErrNotFound)
	f.imageRepo.On("ListByProductID", mock.Anything, int64(5)).Return([]model.ProductImage{}, nil)
	f.ratingRepo.On("AverageByProductID", mock.Anything, int64(5)).Return(float64(0), nil)
	f.ratingRepo.On("AverageByProductIDs", mock.Anything, []int64{5}).Return(map[int64]float64{}, nil)

	out, err := f.uc.Get(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].ID)
}

// 空のリストでもItemsは空配列
func TestWishlistUsecase_Get_Empty(t *testing.T) {
	f := newWishlistFixture()

	f.wishlistRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Wishlist{ID: 7, UserID: 1}, nil)
	f.wishlistRepo.On("ListProductIDs", mock.Anything, int64(7)).Return([]int64{}, nil)

	out, err := f.uc.Get(context.Background(), 1)
	assert.NoError(t, err)
	assert.NotNil(t, out.Items)
	assert.Len(t, out.Items, 0)
}

// =====================
// 削除
// =====================

// 入っていない商品を外してもエラーにしない
func TestWishlistUsecase_Remove_SilentWhenAbsent(t *testing.T) {
	f := newWishlistFixture()

	f.wishlistRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Wishlist{ID: 7, UserID: 1}, nil)
	f.wishlistRepo.On("RemoveProduct", mock.Anything, int64(7), int64(99)).Return(nil)
	f.wishlistRepo.On("ListProductIDs", mock.Anything, int64(7)).Return([]int64{}, nil)

	out, err := f.uc.Remove(context.Background(), 1, 99)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 0)
}
