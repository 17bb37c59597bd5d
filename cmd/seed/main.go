package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	catalogModels "github.com/architect/natural-teacher/internal/catalog/models"
	"github.com/architect/natural-teacher/internal/common/database"
	gamificationModels "github.com/architect/natural-teacher/internal/gamification/models"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	monitoringModels "github.com/architect/natural-teacher/internal/monitoring/models"
	settingsModels "github.com/architect/natural-teacher/internal/settings/models"
	"github.com/architect/natural-teacher/pkg/auth"
	"github.com/architect/natural-teacher/pkg/config"
	"gorm.io/gorm"
)

var demoUsers = flag.Bool("demo-users", false, "Also create demo student/parent/teacher accounts")

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := database.InitWithType(cfg.Database.Type, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("🌱 Starting data seeding...")
	db := database.GetDB()

	if err := seedAgeGroups(db); err != nil {
		log.Fatalf("Failed to seed age groups: %v", err)
	}
	log.Println("✅ Age groups")

	if err := seedCatalog(db); err != nil {
		log.Fatalf("Failed to seed subjects and topics: %v", err)
	}
	log.Println("✅ Subjects and topics")

	if err := seedGamification(db); err != nil {
		log.Fatalf("Failed to seed gamification content: %v", err)
	}
	log.Println("✅ Achievements, badges, rewards and challenges")

	if err := seedSettings(db); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}
	log.Println("✅ System settings")

	if *demoUsers {
		if err := seedDemoUsers(db); err != nil {
			log.Fatalf("Failed to seed demo users: %v", err)
		}
		log.Println("✅ Demo accounts (password: password123)")
	}

	log.Println("🎉 Seeding complete")
}

func seedAgeGroups(db *gorm.DB) error {
	groups := []identityModels.AgeGroup{
		{Name: "Early Elementary", MinAge: 5, MaxAge: 7, ComplexityLevel: 1, VocabularyLevel: "basic"},
		{Name: "Elementary", MinAge: 8, MaxAge: 10, ComplexityLevel: 2, VocabularyLevel: "intermediate"},
		{Name: "Middle School", MinAge: 11, MaxAge: 15, ComplexityLevel: 3, VocabularyLevel: "advanced"},
	}
	for _, g := range groups {
		if err := db.Where("name = ?", g.Name).FirstOrCreate(&g).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedCatalog(db *gorm.DB) error {
	subjects := []struct {
		catalogModels.Subject
		topics []catalogModels.Topic
	}{
		{
			Subject: catalogModels.Subject{Name: "Mathematics", Description: "Numbers, shapes and problem solving", Icon: "calculator", DisplayOrder: 1, IsActive: true},
			topics: []catalogModels.Topic{
				{Name: "Addition and Subtraction", AgeGroupMin: 5, AgeGroupMax: 8, DifficultyLevel: 1, PointsAvailable: 10, IsActive: true},
				{Name: "Multiplication Tables", AgeGroupMin: 7, AgeGroupMax: 10, DifficultyLevel: 2, PointsAvailable: 15, IsActive: true},
				{Name: "Fractions", AgeGroupMin: 8, AgeGroupMax: 12, DifficultyLevel: 3, PointsAvailable: 20, IsActive: true},
				{Name: "Basic Algebra", AgeGroupMin: 11, AgeGroupMax: 15, DifficultyLevel: 4, PointsAvailable: 25, IsActive: true},
			},
		},
		{
			Subject: catalogModels.Subject{Name: "Science", Description: "How the world works", Icon: "flask", DisplayOrder: 2, IsActive: true},
			topics: []catalogModels.Topic{
				{Name: "Animals and Habitats", AgeGroupMin: 5, AgeGroupMax: 9, DifficultyLevel: 1, PointsAvailable: 10, IsActive: true},
				{Name: "The Solar System", AgeGroupMin: 8, AgeGroupMax: 12, DifficultyLevel: 2, PointsAvailable: 15, IsActive: true},
				{Name: "States of Matter", AgeGroupMin: 9, AgeGroupMax: 13, DifficultyLevel: 3, PointsAvailable: 20, IsActive: true},
			},
		},
		{
			Subject: catalogModels.Subject{Name: "Language Arts", Description: "Reading, writing and vocabulary", Icon: "book", DisplayOrder: 3, IsActive: true},
			topics: []catalogModels.Topic{
				{Name: "Phonics and Spelling", AgeGroupMin: 5, AgeGroupMax: 8, DifficultyLevel: 1, PointsAvailable: 10, IsActive: true},
				{Name: "Reading Comprehension", AgeGroupMin: 7, AgeGroupMax: 12, DifficultyLevel: 2, PointsAvailable: 15, IsActive: true},
				{Name: "Essay Writing", AgeGroupMin: 11, AgeGroupMax: 15, DifficultyLevel: 4, PointsAvailable: 25, IsActive: true},
			},
		},
	}

	for _, entry := range subjects {
		subject := entry.Subject
		if err := db.Where("name = ?", subject.Name).FirstOrCreate(&subject).Error; err != nil {
			return err
		}
		for _, topic := range entry.topics {
			topic.SubjectID = subject.ID
			if err := db.Where("subject_id = ? AND name = ?", subject.ID, topic.Name).
				FirstOrCreate(&topic).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedGamification(db *gorm.DB) error {
	var math catalogModels.Subject
	if err := db.Where("name = ?", "Mathematics").First(&math).Error; err != nil {
		return err
	}

	achievements := []gamificationModels.Achievement{
		{Name: "First Steps", Description: "Complete your first homework session", Icon: "footprints", Type: gamificationModels.AchievementSession, Requirements: `{"session_count":1}`, PointsReward: 10, IsActive: true},
		{Name: "Dedicated Learner", Description: "Complete 10 homework sessions", Icon: "medal", Type: gamificationModels.AchievementSession, Requirements: `{"session_count":10}`, PointsReward: 50, IsActive: true},
		{Name: "Habit Builder", Description: "Log in 3 days in a row", Icon: "flame", Type: gamificationModels.AchievementLogin, Requirements: `{"streak_days":3}`, PointsReward: 15, IsActive: true},
		{Name: "Week Warrior", Description: "Log in 7 days in a row", Icon: "fire", Type: gamificationModels.AchievementLogin, Requirements: `{"streak_days":7}`, PointsReward: 40, IsActive: true},
		{Name: "Math Explorer", Description: "Complete 5 math sessions", Icon: "abacus", Type: gamificationModels.AchievementSubject, Requirements: fmt.Sprintf(`{"subject_id":%d,"sessions_completed":5}`, math.ID), PointsReward: 30, IsActive: true},
	}
	for _, a := range achievements {
		if err := db.Where("name = ?", a.Name).FirstOrCreate(&a).Error; err != nil {
			return err
		}
	}

	badges := []gamificationModels.Badge{
		{Name: "Bronze Scholar", Description: "Earn 100 points", Icon: "badge-bronze", RequiredPoints: 100, IsActive: true},
		{Name: "Silver Scholar", Description: "Earn 500 points", Icon: "badge-silver", RequiredPoints: 500, IsActive: true},
		{Name: "Gold Scholar", Description: "Earn 1500 points", Icon: "badge-gold", RequiredPoints: 1500, IsActive: true},
	}
	for _, b := range badges {
		if err := db.Where("name = ?", b.Name).FirstOrCreate(&b).Error; err != nil {
			return err
		}
	}

	rewards := []gamificationModels.Reward{
		{Name: "Custom Avatar Frame", Description: "A decorative frame for your avatar", Icon: "frame", PointsCost: 50, IsActive: true},
		{Name: "Profile Theme Pack", Description: "Unlock extra profile themes", Icon: "palette", PointsCost: 200, IsActive: true},
		{Name: "Super Tutor Session", Description: "An extended tutoring session", Icon: "star", PointsCost: 500, IsActive: true},
	}
	for _, r := range rewards {
		if err := db.Where("name = ?", r.Name).FirstOrCreate(&r).Error; err != nil {
			return err
		}
	}

	now := time.Now()
	challenges := []gamificationModels.Challenge{
		{Name: "Weekly Focus", Description: "Complete 5 sessions this week", StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 6), PointsReward: 50, IsActive: true},
		{Name: "Monthly Marathon", Description: "Complete 20 sessions this month", StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 1, 0), PointsReward: 200, IsActive: true},
	}
	for _, c := range challenges {
		if err := db.Where("name = ?", c.Name).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedSettings(db *gorm.DB) error {
	defaults := []settingsModels.SystemSetting{
		{SettingKey: "streak_bonus_multiplier", SettingValue: "1.5", SettingGroup: "gamification", ValueType: settingsModels.TypeFloat, IsEditable: true},
		{SettingKey: "streak_bonus_threshold", SettingValue: "3", SettingGroup: "gamification", ValueType: settingsModels.TypeInteger, IsEditable: true},
		{SettingKey: "feedback_bonus_points", SettingValue: "2", SettingGroup: "gamification", ValueType: settingsModels.TypeInteger, IsEditable: true},
		{SettingKey: "base_session_points", SettingValue: "10", SettingGroup: "gamification", ValueType: settingsModels.TypeInteger, IsEditable: true},
		{SettingKey: "ai_service_url", SettingValue: "http://127.0.0.1:5000", SettingGroup: "ai", ValueType: settingsModels.TypeString, IsEditable: true},
		{SettingKey: "ai_timeout_seconds", SettingValue: "30", SettingGroup: "ai", ValueType: settingsModels.TypeInteger, IsEditable: true},
	}
	for _, s := range defaults {
		if err := db.Where("setting_key = ?", s.SettingKey).FirstOrCreate(&s).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDemoUsers(db *gorm.DB) error {
	hash, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}
	now := time.Now()
	age := 9

	students := []identityModels.User{
		{Name: "Demo Student", Email: "student@example.com", Password: hash, Role: identityModels.RoleStudent, Age: &age,
			Profile: &identityModels.Profile{CurrentLevel: 1, TotalPoints: 0, DailyStreak: 1, LastLoginDate: &now}},
	}
	adults := []identityModels.User{
		{Name: "Demo Parent", Email: "parent@example.com", Password: hash, Role: identityModels.RoleParent,
			Profile: &identityModels.Profile{CurrentLevel: 1}},
		{Name: "Demo Teacher", Email: "teacher@example.com", Password: hash, Role: identityModels.RoleTeacher,
			Profile: &identityModels.Profile{CurrentLevel: 1}},
	}

	for _, u := range append(students, adults...) {
		var count int64
		db.Model(&identityModels.User{}).Where("email = ?", u.Email).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("create %s: %w", u.Email, err)
		}
	}

	// Link the demo parent and teacher to the demo student.
	var student, parent, teacher identityModels.User
	if err := db.Where("email = ?", "student@example.com").First(&student).Error; err != nil {
		return err
	}
	if err := db.Where("email = ?", "parent@example.com").First(&parent).Error; err != nil {
		return err
	}
	if err := db.Where("email = ?", "teacher@example.com").First(&teacher).Error; err != nil {
		return err
	}

	links := []monitoringModels.Monitoring{
		{MonitorID: parent.ID, StudentID: student.ID, PermissionLevel: monitoringModels.PermissionManage},
		{MonitorID: teacher.ID, StudentID: student.ID, PermissionLevel: monitoringModels.PermissionView},
	}
	for _, l := range links {
		if err := db.Where("monitor_id = ? AND student_id = ?", l.MonitorID, l.StudentID).
			FirstOrCreate(&l).Error; err != nil {
			return err
		}
	}
	return nil
}
