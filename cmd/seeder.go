package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/office-calendar/internal/auth"
	"github.com/frahmantamala/office-calendar/internal/employee"
	"github.com/frahmantamala/office-calendar/internal/room"
	"github.com/frahmantamala/office-calendar/internal/settings"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"event_participations", "room_bookings", "events", "admin_permissions", "settings", "employees", "rooms"} {
				if err := gormDB.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		seedEmployees := []employee.Employee{
			{FirstName: "Ava", LastName: "Admin", Email: "admin@office.local", PasswordHash: string(hash), Role: auth.RoleAdmin},
			{FirstName: "Mara", LastName: "Manager", Email: "manager@office.local", PasswordHash: string(hash), Role: auth.RoleManager},
			{FirstName: "Evan", LastName: "Employee", Email: "employee@office.local", PasswordHash: string(hash), Role: auth.RoleEmployee},
		}

		for i := range seedEmployees {
			emp := &seedEmployees[i]
			var existing employee.Employee
			err := gormDB.Where("LOWER(email) = LOWER(?)", emp.Email).First(&existing).Error
			if err == nil {
				fmt.Printf("employee %s already exists, skipping\n", emp.Email)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				log.Fatalf("failed to look up employee %s: %v", emp.Email, err)
			}

			err = gormDB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(emp).Error; err != nil {
					return err
				}
				if emp.Role == auth.RoleAdmin {
					perm := employee.AdminPermission{EmployeeID: emp.ID, GrantedAt: time.Now()}
					if err := tx.Create(&perm).Error; err != nil {
						return err
					}
				}
				return tx.Create(settings.Defaults(emp.ID)).Error
			})
			if err != nil {
				log.Fatalf("failed to seed employee %s: %v", emp.Email, err)
			}
			fmt.Printf("Seeded employee: %s (%s)\n", emp.Email, string(emp.Role))
		}

		seedRooms := []room.Room{
			{Name: "Boardroom", Capacity: 12, Location: "1st floor"},
			{Name: "Fishbowl", Capacity: 4, Location: "2nd floor"},
			{Name: "Quiet Corner", Capacity: 2, Location: "2nd floor"},
		}

		for i := range seedRooms {
			rm := &seedRooms[i]
			var count int64
			if err := gormDB.Model(&room.Room{}).Where("LOWER(name) = LOWER(?)", rm.Name).Count(&count).Error; err != nil {
				log.Fatalf("failed to look up room %s: %v", rm.Name, err)
			}
			if count > 0 {
				fmt.Printf("room %s already exists, skipping\n", rm.Name)
				continue
			}
			if err := gormDB.Create(rm).Error; err != nil {
				log.Fatalf("failed to seed room %s: %v", rm.Name, err)
			}
			fmt.Printf("Seeded room: %s\n", rm.Name)
		}

		fmt.Println("Seeding complete. Default password for all accounts: password")
	},
}
