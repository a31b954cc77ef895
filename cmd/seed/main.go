package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"quizarena/internal/model"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "quizarena"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)
	quizColl := db.Collection("quizzes")

	quiz := model.Quiz{
		ID: strconv.FormatInt(time.Now().UnixMilli(), 10),
		Questions: []model.Question{
			{
				Text:         "What infinity stone was hidden on Vormir?",
				Options:      []string{"Time Stone", "Soul Stone", "Reality Stone", "Power Stone"},
				CorrectIndex: 1,
			},
			{
				Text:         "Who was the first character to be snapped away in Avengers: Infinity War?",
				Options:      []string{"Spider-Man", "Bucky Barnes", "Groot", "Scarlet Witch"},
				CorrectIndex: 1,
			},
			{
				Text:         "What is the name of Thor's axe forged in Avengers: Infinity War?",
				Options:      []string{"Mjolnir", "Gungnir", "Stormbreaker", "Hofund"},
				CorrectIndex: 2,
			},
			{
				Text:         "Which film first introduced the Quantum Realm?",
				Options:      []string{"Doctor Strange", "Ant-Man", "Captain Marvel", "Avengers: Endgame"},
				CorrectIndex: 1,
			},
			{
				Text:         "What does Tony Stark's A.I. J.A.R.V.I.S. eventually become?",
				Options:      []string{"Ultron", "F.R.I.D.A.Y.", "Vision", "E.D.I.T.H."},
				CorrectIndex: 2,
			},
		},
		CreatedAt: time.Now(),
	}

	if !quiz.Valid() {
		log.Fatal("seed quiz failed validation")
	}

	_, err = quizColl.InsertOne(ctx, quiz)
	if err != nil {
		log.Fatalf("Failed to insert quiz: %v", err)
	}

	fmt.Printf("Successfully seeded starter quiz '%s' with %d questions\n", quiz.ID, len(quiz.Questions))
}
