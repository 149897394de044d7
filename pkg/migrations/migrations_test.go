package migrations_test

import (
	"os"
	"path"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/store"
	"github.com/applytrack/applytrack/pkg/migrations"
)

var _ = Describe("migrations", Ordered, func() {
	var (
		cfg    *config.Config
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg = config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = ":memory:"

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db
	})

	AfterAll(func() {
		sqlDB, err := gormdb.DB()
		Expect(err).To(BeNil())
		_ = sqlDB.Close()
	})

	Context("store migrations", Ordered, func() {
		It("fails to migration the db -- migration folder does not exists", func() {
			cfg.Service.MigrationFolder = "some folder"
			err := migrations.MigrateStore(gormdb, cfg)
			Expect(err).NotTo(BeNil())
		})

		It("fails to migrate a database without sql dialect", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())

			other := *cfg
			db := *cfg.Database
			db.Type = "mongodb"
			other.Database = &db
			other.Service.MigrationFolder = path.Join(currentFolder, "sql")

			Expect(migrations.MigrateStore(gormdb, &other)).NotTo(Succeed())
		})

		It("sucessfully migrate the db", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())
			cfg.Service.MigrationFolder = path.Join(currentFolder, "sql")

			err = migrations.MigrateStore(gormdb, cfg)
			Expect(err).To(BeNil())

			Expect(gormdb.Migrator().HasTable("jobs")).To(BeTrue())
			Expect(gormdb.Migrator().HasIndex("jobs", "idx_jobs_owner_created")).To(BeTrue())
		})

		It("is idempotent", func() {
			Expect(migrations.MigrateStore(gormdb, cfg)).To(Succeed())
		})
	})
})
