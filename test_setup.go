package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/option"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Test MongoDB
	fmt.Println("Testing MongoDB connection...")
	mongoURI := os.Getenv("MONGO_URI")
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("MongoDB connection failed:", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatal("MongoDB ping failed:", err)
	}
	fmt.Println("✅ MongoDB connected successfully!")

	// Test Firebase (Messaging)
	fmt.Println("\nTesting Firebase Messaging connection...")
	firebasePath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if firebasePath == "" {
		fmt.Println("⚠️  FIREBASE_SERVICE_ACCOUNT_PATH not set, push notifications will be disabled")
	} else {
		opt := option.WithCredentialsFile(firebasePath)

		app, err := firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			log.Fatal("Firebase initialization failed:", err)
		}

		_, err = app.Messaging(context.Background())
		if err != nil {
			log.Fatal("Firebase Messaging client failed:", err)
		}
		fmt.Println("✅ Firebase Messaging connected successfully!")
	}

	// Test Cloudinary
	fmt.Println("\nTesting Cloudinary connection...")
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Fatal("Cloudinary credentials missing in .env")
	}

	cldURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)
	cld, err := cloudinary.NewFromURL(cldURL)
	if err != nil {
		log.Fatal("Cloudinary initialization failed:", err)
	}

	if cld.Config.Cloud.CloudName != cloudName {
		log.Fatal("Cloudinary config mismatch")
	}
	fmt.Println("✅ Cloudinary connected successfully!")

	// Test SMTP reachability (no mail is sent)
	fmt.Println("\nTesting SMTP connection...")
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		fmt.Println("⚠️  SMTP_HOST not set, status update emails will be disabled")
	} else {
		smtpPort := os.Getenv("SMTP_PORT")
		if smtpPort == "" {
			smtpPort = "587"
		}
		conn, err := net.Dial("tcp", net.JoinHostPort(smtpHost, smtpPort))
		if err != nil {
			log.Fatal("SMTP connection failed:", err)
		}
		conn.Close()
		fmt.Println("✅ SMTP server reachable!")
	}

	fmt.Println("\n🎉 All systems ready! You can start filing reports.")
	fmt.Println("\nCloudinary Details:")
	fmt.Printf("  Cloud Name: %s\n", cloudName)
	fmt.Printf("  Upload Folder: %s\n", os.Getenv("CLOUDINARY_UPLOAD_FOLDER"))
}
