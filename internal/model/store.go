package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// StoreCategory groups stores in the directory
type StoreCategory string

const (
	CategoryDepartment StoreCategory = "DEPARTMENT"
	CategoryOutlet     StoreCategory = "OUTLET"
)

// Store is immutable reference data; every site belongs to exactly one store
type Store struct {
	ID             string        `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name           string        `gorm:"type:varchar(255);not null" json:"name"`
	Category       StoreCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	AccessCodeHash string        `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	CreatedAt      time.Time     `json:"-"`
	UpdatedAt      time.Time     `json:"-"`
}

// SetAccessCode hashes and sets the store's entry code
func (s *Store) SetAccessCode(code string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.AccessCodeHash = string(hashed)
	return nil
}

// CheckAccessCode verifies if the provided code matches the stored hash
func (s *Store) CheckAccessCode(code string) bool {
	if s.AccessCodeHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.AccessCodeHash), []byte(code)) == nil
}

// StoreSeed is a store together with its plain entry code, used only for seeding
type StoreSeed struct {
	Store
	AccessCode string
}

// DefaultStores is the reference directory seeded on first start
var DefaultStores = []StoreSeed{
	// Department stores
	{Store: Store{ID: "dept-2", Name: "Apgujeong Main", Category: CategoryDepartment}, AccessCode: "1111"},
	{Store: Store{ID: "dept-3", Name: "Trade Center", Category: CategoryDepartment}, AccessCode: "1112"},
	{Store: Store{ID: "dept-4", Name: "Cheonho", Category: CategoryDepartment}, AccessCode: "1113"},
	{Store: Store{ID: "dept-5", Name: "Sinchon", Category: CategoryDepartment}, AccessCode: "1114"},
	{Store: Store{ID: "dept-6", Name: "Mia", Category: CategoryDepartment}, AccessCode: "1115"},
	{Store: Store{ID: "dept-7", Name: "Mokdong", Category: CategoryDepartment}, AccessCode: "1116"},
	{Store: Store{ID: "dept-8", Name: "Jungdong", Category: CategoryDepartment}, AccessCode: "1117"},
	{Store: Store{ID: "dept-10", Name: "Kintex", Category: CategoryDepartment}, AccessCode: "1118"},
	{Store: Store{ID: "dept-12", Name: "Ulsan", Category: CategoryDepartment}, AccessCode: "1119"},
	{Store: Store{ID: "dept-11", Name: "Daegu", Category: CategoryDepartment}, AccessCode: "1120"},
	{Store: Store{ID: "dept-13", Name: "Chungcheong", Category: CategoryDepartment}, AccessCode: "1121"},
	{Store: Store{ID: "dept-9", Name: "Pangyo", Category: CategoryDepartment}, AccessCode: "1122"},
	{Store: Store{ID: "dept-1", Name: "Seoul Yeouido", Category: CategoryDepartment}, AccessCode: "1123"},

	// Outlets
	{Store: Store{ID: "outlet-1", Name: "Premium Outlet Gimpo", Category: CategoryOutlet}, AccessCode: "1124"},
	{Store: Store{ID: "outlet-2", Name: "Premium Outlet Songdo", Category: CategoryOutlet}, AccessCode: "1125"},
	{Store: Store{ID: "outlet-3", Name: "Premium Outlet Daejeon", Category: CategoryOutlet}, AccessCode: "1126"},
	{Store: Store{ID: "outlet-4", Name: "Premium Outlet Space1", Category: CategoryOutlet}, AccessCode: "1127"},
	{Store: Store{ID: "outlet-7", Name: "Outlet Dongdaemun", Category: CategoryOutlet}, AccessCode: "1128"},
	{Store: Store{ID: "outlet-9", Name: "Outlet Garden Five", Category: CategoryOutlet}, AccessCode: "1129"},
	{Store: Store{ID: "outlet-10", Name: "Outlet Daegu", Category: CategoryOutlet}, AccessCode: "1130"},
	{Store: Store{ID: "outlet-8", Name: "Outlet Gasan", Category: CategoryOutlet}, AccessCode: "1131"},
	{Store: Store{ID: "outlet-5", Name: "Connect Busan", Category: CategoryOutlet}, AccessCode: "1132"},
	{Store: Store{ID: "outlet-11", Name: "Connect Cheongju", Category: CategoryOutlet}, AccessCode: "1133"},
}
